package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/gitinfo"
	"github.com/guardrails/guardrails/internal/adapters/outbound/history"
	"github.com/guardrails/guardrails/internal/adapters/outbound/tui"
	"github.com/guardrails/guardrails/internal/application"
)

func newHistoryCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
		path       string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}

			svc := application.NewHistoryService(history.New(), gitinfo.New())
			records, err := svc.Recent(path, limit)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				return emitJSON(cmd, records)
			}
			emit(cmd, cfg, tui.RenderHistory(records))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}
