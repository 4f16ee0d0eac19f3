package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/config"
	"github.com/guardrails/guardrails/internal/adapters/outbound/execrunner"
	"github.com/guardrails/guardrails/internal/domain"
)

func loadConfig(projectPath string) (domain.ProjectConfig, error) {
	return config.New().Load(projectPath)
}

func newRunner(cfg domain.ProjectConfig) *execrunner.Runner {
	return execrunner.New(cfg.ToolTimeout(), cfg.OutputLimit())
}

// emit writes a rendered report, trimmed to the configured budget.
func emit(cmd *cobra.Command, cfg domain.ProjectConfig, rendered string) {
	fmt.Fprint(cmd.OutOrStdout(), domain.Truncate(rendered, cfg.ReportBudget))
}

func emitJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
