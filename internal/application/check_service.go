package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guardrails/guardrails/internal/domain"
	"github.com/guardrails/guardrails/internal/domain/rule"
)

var checkSkipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".guardrails":  true,
}

// CheckService runs the built-in deterministic rules over a source tree.
type CheckService struct {
	engine *rule.Engine
	rules  []rule.Rule
	cfg    domain.ProjectConfig
}

func NewCheckService(engine *rule.Engine, rules []rule.Rule, cfg domain.ProjectConfig) *CheckService {
	return &CheckService{engine: engine, rules: rules, cfg: cfg}
}

// Check walks the project (or a single workspace when name is non-empty)
// and dispatches every rule over the matching source files.
func (s *CheckService) Check(projectRoot, workspace string) (*domain.CheckReport, error) {
	roots := make(map[string]string) // workspace name -> absolute path
	if workspace != "" {
		ws, ok := s.cfg.Workspace(workspace)
		if !ok {
			return nil, fmt.Errorf("%w: unknown workspace %q", domain.ErrInvalidInput, workspace)
		}
		roots[ws.Name] = filepath.Join(projectRoot, ws.Path)
	} else {
		for _, ws := range s.cfg.Workspaces {
			roots[ws.Name] = filepath.Join(projectRoot, ws.Path)
		}
	}

	var files []string
	for _, dir := range roots {
		found, err := collectSources(dir)
		if err != nil {
			return nil, fmt.Errorf("collecting sources: %w", err)
		}
		files = append(files, found...)
	}

	report := s.engine.Run(s.rules, files)
	report.Root = projectRoot
	return report, nil
}

// collectSources gathers .ts/.tsx files under dir. A missing workspace
// directory contributes nothing.
func collectSources(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if checkSkipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".ts") || strings.HasSuffix(d.Name(), ".tsx") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
