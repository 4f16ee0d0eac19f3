package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/gitinfo"
	"github.com/guardrails/guardrails/internal/adapters/outbound/history"
	"github.com/guardrails/guardrails/internal/adapters/outbound/tui"
	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		jsonOutput   bool
		save         bool
		analysisType string
		workspace    string
		targets      []string
		path         string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a static or infrastructure analysis",
		Long:  "Run one of the configured analysis tools (typecheck, lint, infra-format, infra-lint, infra-security) and report normalized findings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}

			svc := application.NewAnalysisService(newRunner(cfg), cfg)
			req := domain.AnalysisRequest{
				Workspace:   workspace,
				Type:        domain.AnalysisType(analysisType),
				TargetDirs:  targets,
				ProjectRoot: path,
			}

			report, err := svc.Run(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("analyze failed: %w", err)
			}

			if save {
				hist := application.NewHistoryService(history.New(), gitinfo.New())
				if err := hist.Record(path, report); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "saving run: %v\n", err)
				}
			}

			if jsonOutput {
				return emitJSON(cmd, report)
			}
			emit(cmd, cfg, tui.RenderAnalysis(report))
			return nil
		},
	}

	var names []string
	for _, t := range domain.AnalysisTypes() {
		names = append(names, string(t))
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "Record the run in .guardrails/history.json")
	cmd.Flags().StringVar(&analysisType, "type", "", "Analysis type: "+strings.Join(names, ", "))
	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace to analyze")
	cmd.Flags().StringSliceVar(&targets, "target", nil, "Absolute directories to filter findings to")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("workspace")

	return cmd
}
