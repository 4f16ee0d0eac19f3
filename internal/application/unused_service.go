package application

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/guardrails/guardrails/internal/domain"
)

// UnusedExportService runs the dead-export detector for one workspace.
type UnusedExportService struct {
	runner domain.CommandRunner
	cfg    domain.ProjectConfig
}

func NewUnusedExportService(runner domain.CommandRunner, cfg domain.ProjectConfig) *UnusedExportService {
	return &UnusedExportService{runner: runner, cfg: cfg}
}

// Run detects unused exports in the workspace, optionally filtered to
// absolute directory prefixes. Success means zero exports remain after
// filtering.
func (s *UnusedExportService) Run(ctx context.Context, projectRoot, workspace string, targetDirs []string) (*domain.UnusedReport, error) {
	ws, ok := s.cfg.Workspace(workspace)
	if !ok {
		return nil, fmt.Errorf("%w: unknown workspace %q", domain.ErrInvalidInput, workspace)
	}
	for _, dir := range targetDirs {
		if !filepath.IsAbs(dir) {
			return nil, fmt.Errorf("%w: target directory %q is not absolute", domain.ErrInvalidInput, dir)
		}
	}

	report := &domain.UnusedReport{Workspace: workspace}
	workDir := filepath.Join(projectRoot, ws.Path)

	out, err := s.runner.Run(ctx, workDir, s.cfg.Commands.Unused)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	report.RawOutput = out.Combined()

	exports, err := parseUnusedExports(report.RawOutput, workDir)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}

	for _, e := range exports {
		if inTargets(e.File, targetDirs) {
			report.Exports = append(report.Exports, e)
		}
	}
	report.Success = len(report.Exports) == 0
	return report, nil
}
