package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/llm"
	"github.com/guardrails/guardrails/internal/adapters/outbound/scanner"
	"github.com/guardrails/guardrails/internal/adapters/outbound/tui"
	"github.com/guardrails/guardrails/internal/application"
	"github.com/guardrails/guardrails/internal/domain"
)

func newReviewCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "review <file>...",
		Short: "Run an LLM-assisted qualitative review",
		Long:  "Review one or more files against the matching policy documents using an LLM agent. Requires ANTHROPIC_API_KEY.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := os.Getenv("ANTHROPIC_API_KEY")
			if apiKey == "" {
				return fmt.Errorf("ANTHROPIC_API_KEY is not set")
			}

			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}

			model := llm.NewClient(apiKey, cfg.Review.Model)
			policies := application.NewPolicyService(scanner.New())
			svc := application.NewReviewService(model, policies, cfg)

			results, summary := svc.ReviewBatch(cmd.Context(), path, args)

			if jsonOutput {
				return emitJSON(cmd, struct {
					Results []domain.ReviewResult `json:"results"`
					Summary domain.ReviewSummary  `json:"summary"`
				}{results, summary})
			}
			emit(cmd, cfg, tui.RenderReviews(results, summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}
