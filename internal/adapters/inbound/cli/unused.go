package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/tui"
	"github.com/guardrails/guardrails/internal/application"
)

func newUnusedCmd() *cobra.Command {
	var (
		jsonOutput bool
		workspace  string
		targets    []string
		path       string
	)

	cmd := &cobra.Command{
		Use:   "unused",
		Short: "Find unused exports in a workspace",
		Long:  "Run the configured unused-export analyzer and report exported symbols nothing imports.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}

			svc := application.NewUnusedExportService(newRunner(cfg), cfg)
			report, err := svc.Run(cmd.Context(), path, workspace, targets)
			if err != nil {
				return fmt.Errorf("unused-export analysis failed: %w", err)
			}

			if jsonOutput {
				return emitJSON(cmd, report)
			}
			emit(cmd, cfg, tui.RenderUnused(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace to analyze")
	cmd.Flags().StringSliceVar(&targets, "target", nil, "Absolute directories to filter findings to")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}
