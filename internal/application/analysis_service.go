package application

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/guardrails/guardrails/internal/domain"
)

// AnalysisService drives external compiler/lint/security tools and
// normalizes their output into structured reports. The tool always runs
// over its whole workspace; target-directory filtering happens post-parse.
type AnalysisService struct {
	runner domain.CommandRunner
	cfg    domain.ProjectConfig
}

func NewAnalysisService(runner domain.CommandRunner, cfg domain.ProjectConfig) *AnalysisService {
	return &AnalysisService{runner: runner, cfg: cfg}
}

// Validate rejects malformed requests before any I/O.
func (s *AnalysisService) Validate(req domain.AnalysisRequest) error {
	if req.ProjectRoot == "" {
		return fmt.Errorf("%w: project root is required", domain.ErrInvalidInput)
	}
	if _, ok := s.cfg.Workspace(req.Workspace); !ok {
		return fmt.Errorf("%w: unknown workspace %q", domain.ErrInvalidInput, req.Workspace)
	}
	valid := false
	for _, t := range domain.AnalysisTypes() {
		if req.Type == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: unknown analysis type %q", domain.ErrInvalidInput, req.Type)
	}
	for _, dir := range req.TargetDirs {
		if !filepath.IsAbs(dir) {
			return fmt.Errorf("%w: target directory %q is not absolute", domain.ErrInvalidInput, dir)
		}
	}
	return nil
}

// Run executes one analysis. Tool and parse failures are captured into
// the report so batch rendering still works; only input validation
// returns an error.
func (s *AnalysisService) Run(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisReport, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	report := &domain.AnalysisReport{Type: req.Type}
	ws, _ := s.cfg.Workspace(req.Workspace)
	workDir := filepath.Join(req.ProjectRoot, ws.Path)

	argv := s.cfg.Command(req.Type)
	out, err := s.runner.Run(ctx, workDir, argv)
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}
	report.RawOutput = out.Combined()

	if strings.TrimSpace(report.RawOutput) == "" && out.ExitCode != 0 {
		report.Error = fmt.Sprintf("%v: %s exited %d with no output", domain.ErrParse, argv[0], out.ExitCode)
		return report, nil
	}

	if err := s.parse(report, req, workDir); err != nil {
		report.Error = err.Error()
		return report, nil
	}
	return report, nil
}

func (s *AnalysisService) parse(report *domain.AnalysisReport, req domain.AnalysisRequest, workDir string) error {
	raw := report.RawOutput

	switch req.Type {
	case domain.AnalysisTypeCheck:
		issues, err := parseTypeCheck(raw, workDir)
		if err != nil {
			return err
		}
		for _, i := range issues {
			if inTargets(i.File, req.TargetDirs) {
				report.TypeIssues = append(report.TypeIssues, i)
			}
		}
		report.Success = len(report.TypeIssues) == 0

	case domain.AnalysisLint:
		issues, err := parseESLint(raw, workDir)
		if err != nil {
			return err
		}
		errorCount := 0
		for _, i := range issues {
			if !inTargets(i.File, req.TargetDirs) {
				continue
			}
			report.LintIssues = append(report.LintIssues, i)
			if i.Severity == domain.SeverityError {
				errorCount++
			}
		}
		report.Success = errorCount == 0

	case domain.AnalysisInfraFormat:
		issues, err := parseTerraformFmt(raw, workDir)
		if err != nil {
			return err
		}
		for _, i := range issues {
			if inTargets(i.File, req.TargetDirs) {
				report.FormatIssues = append(report.FormatIssues, i)
			}
		}
		report.Success = len(report.FormatIssues) == 0

	case domain.AnalysisInfraLint:
		issues, err := parseTFLint(raw, workDir)
		if err != nil {
			return err
		}
		errorCount := 0
		for _, i := range issues {
			if !inTargets(i.File, req.TargetDirs) {
				continue
			}
			report.LintIssues = append(report.LintIssues, i)
			if i.Severity == domain.SeverityError {
				errorCount++
			}
		}
		report.Success = errorCount == 0

	case domain.AnalysisInfraSecurity:
		issues, err := parseTFSec(raw, workDir)
		if err != nil {
			return err
		}
		for _, i := range issues {
			if inTargets(i.File, req.TargetDirs) {
				report.SecurityIssues = append(report.SecurityIssues, i)
			}
		}
		// Any finding blocks, regardless of tier.
		report.Success = len(report.SecurityIssues) == 0
	}

	return nil
}
