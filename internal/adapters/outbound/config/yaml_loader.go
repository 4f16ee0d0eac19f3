package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/guardrails/guardrails/internal/domain"
)

const fileName = ".guardrails.yaml"

// YAMLLoader reads .guardrails.yaml from a project root.
type YAMLLoader struct{}

func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads the config file, overlaying explicit values on the defaults.
// A missing file yields DefaultConfig.
func (l *YAMLLoader) Load(projectPath string) (domain.ProjectConfig, error) {
	data, err := os.ReadFile(filepath.Join(projectPath, fileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.ProjectConfig{}, err
	}

	var cfg domain.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", fileName, err)
	}

	cfg = mergeDefaults(domain.DefaultConfig(), cfg)

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", fileName, err)
	}
	return cfg, nil
}

// mergeDefaults fills zero-valued fields from the defaults. Explicit
// values always win.
func mergeDefaults(base, override domain.ProjectConfig) domain.ProjectConfig {
	result := override

	if result.PolicyRoot == "" {
		result.PolicyRoot = base.PolicyRoot
	}
	if len(result.Workspaces) == 0 {
		result.Workspaces = base.Workspaces
	}
	if result.ReportBudget == 0 {
		result.ReportBudget = base.ReportBudget
	}
	if result.ToolTimeoutSec == 0 {
		result.ToolTimeoutSec = base.ToolTimeoutSec
	}
	if result.OutputLimitMB == 0 {
		result.OutputLimitMB = base.OutputLimitMB
	}

	if len(result.Commands.TypeCheck) == 0 {
		result.Commands.TypeCheck = base.Commands.TypeCheck
	}
	if len(result.Commands.Lint) == 0 {
		result.Commands.Lint = base.Commands.Lint
	}
	if len(result.Commands.Unused) == 0 {
		result.Commands.Unused = base.Commands.Unused
	}
	if len(result.Commands.InfraFormat) == 0 {
		result.Commands.InfraFormat = base.Commands.InfraFormat
	}
	if len(result.Commands.InfraLint) == 0 {
		result.Commands.InfraLint = base.Commands.InfraLint
	}
	if len(result.Commands.InfraSecurity) == 0 {
		result.Commands.InfraSecurity = base.Commands.InfraSecurity
	}

	if result.Review.Model == "" {
		result.Review.Model = base.Review.Model
	}
	if result.Review.MaxTurns == 0 {
		result.Review.MaxTurns = base.Review.MaxTurns
	}
	if result.Review.FileTimeoutSec == 0 {
		result.Review.FileTimeoutSec = base.Review.FileTimeoutSec
	}
	if result.Review.Workers == 0 {
		result.Review.Workers = base.Review.Workers
	}

	return result
}
