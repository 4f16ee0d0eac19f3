package domain

import (
	"fmt"
	"path/filepath"
	"time"
)

// WorkspaceConfig names one governed code area and its path relative to
// the project root.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// CommandsConfig holds the argv of each external tool invocation.
type CommandsConfig struct {
	TypeCheck     []string `yaml:"typecheck"`
	Lint          []string `yaml:"lint"`
	Unused        []string `yaml:"unused"`
	InfraFormat   []string `yaml:"infra_format"`
	InfraLint     []string `yaml:"infra_lint"`
	InfraSecurity []string `yaml:"infra_security"`
}

// ReviewConfig bounds the qualitative review loop.
type ReviewConfig struct {
	Model          string `yaml:"model"`
	MaxTurns       int    `yaml:"max_turns"`
	FileTimeoutSec int    `yaml:"file_timeout_sec"`
	Workers        int    `yaml:"workers"`
}

// ProjectConfig is the engine configuration loaded from .guardrails.yaml.
type ProjectConfig struct {
	PolicyRoot     string            `yaml:"policy_root"`
	Workspaces     []WorkspaceConfig `yaml:"workspaces"`
	Commands       CommandsConfig    `yaml:"commands"`
	ReportBudget   int               `yaml:"report_budget"`
	ToolTimeoutSec int               `yaml:"tool_timeout_sec"`
	OutputLimitMB  int               `yaml:"output_limit_mb"`
	Review         ReviewConfig      `yaml:"review"`
}

// DefaultConfig returns the configuration used when no .guardrails.yaml
// exists in the project.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{
		PolicyRoot: "guardrails",
		Workspaces: []WorkspaceConfig{
			{Name: "server", Path: "server"},
			{Name: "web", Path: "web"},
			{Name: "infra", Path: "infra"},
		},
		Commands: CommandsConfig{
			TypeCheck:     []string{"npm", "run", "--silent", "typecheck"},
			Lint:          []string{"npx", "eslint", ".", "--format", "json"},
			Unused:        []string{"npx", "knip", "--reporter", "json"},
			InfraFormat:   []string{"terraform", "fmt", "-check", "-recursive"},
			InfraLint:     []string{"tflint", "--format", "json", "--recursive"},
			InfraSecurity: []string{"tfsec", "--format", "json", "--soft-fail"},
		},
		ReportBudget:   24_000,
		ToolTimeoutSec: 240,
		OutputLimitMB:  32,
		Review: ReviewConfig{
			Model:          "claude-sonnet-4-5",
			MaxTurns:       16,
			FileTimeoutSec: 180,
			Workers:        4,
		},
	}
}

// ToolTimeout returns the subprocess wall-clock bound.
func (c ProjectConfig) ToolTimeout() time.Duration {
	return time.Duration(c.ToolTimeoutSec) * time.Second
}

// OutputLimit returns the subprocess output ceiling in bytes.
func (c ProjectConfig) OutputLimit() int64 {
	return int64(c.OutputLimitMB) << 20
}

// FileTimeout returns the per-file review deadline.
func (c ReviewConfig) FileTimeout() time.Duration {
	return time.Duration(c.FileTimeoutSec) * time.Second
}

// Workspace resolves a workspace name to its config.
func (c ProjectConfig) Workspace(name string) (WorkspaceConfig, bool) {
	for _, ws := range c.Workspaces {
		if ws.Name == name {
			return ws, true
		}
	}
	return WorkspaceConfig{}, false
}

// Command returns the argv configured for the given analysis type.
func (c ProjectConfig) Command(t AnalysisType) []string {
	switch t {
	case AnalysisTypeCheck:
		return c.Commands.TypeCheck
	case AnalysisLint:
		return c.Commands.Lint
	case AnalysisInfraFormat:
		return c.Commands.InfraFormat
	case AnalysisInfraLint:
		return c.Commands.InfraLint
	case AnalysisInfraSecurity:
		return c.Commands.InfraSecurity
	}
	return nil
}

// Validate rejects configurations that would misbehave at runtime.
func (c ProjectConfig) Validate() error {
	if filepath.IsAbs(c.PolicyRoot) {
		return fmt.Errorf("policy_root must be relative, got %q", c.PolicyRoot)
	}
	seen := make(map[string]bool, len(c.Workspaces))
	for _, ws := range c.Workspaces {
		if ws.Name == "" {
			return fmt.Errorf("workspace with empty name")
		}
		if seen[ws.Name] {
			return fmt.Errorf("duplicate workspace %q", ws.Name)
		}
		seen[ws.Name] = true
	}
	if c.ReportBudget < 0 {
		return fmt.Errorf("report_budget must be >= 0, got %d", c.ReportBudget)
	}
	if c.ToolTimeoutSec < 0 || c.OutputLimitMB < 0 {
		return fmt.Errorf("tool bounds must be >= 0")
	}
	if c.Review.MaxTurns < 0 || c.Review.Workers < 0 {
		return fmt.Errorf("review bounds must be >= 0")
	}
	return nil
}
