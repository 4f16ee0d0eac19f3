package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/guardrails/guardrails/internal/adapters/outbound/scanner"
	"github.com/guardrails/guardrails/internal/adapters/outbound/tui"
	"github.com/guardrails/guardrails/internal/application"
)

func newPoliciesCmd() *cobra.Command {
	var (
		jsonOutput bool
		path       string
	)

	cmd := &cobra.Command{
		Use:   "policies",
		Short: "List the policy catalog",
		Long:  "Walk the policy directory tree and list every check, grouped by workspace and layer.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}

			svc := application.NewPolicyService(scanner.New())
			workspaces, err := svc.List(filepath.Join(path, cfg.PolicyRoot))
			if err != nil {
				return fmt.Errorf("listing policies: %w", err)
			}

			if jsonOutput {
				return emitJSON(cmd, workspaces)
			}
			emit(cmd, cfg, tui.RenderPolicies(workspaces))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&path, "path", ".", "Project path")

	return cmd
}
