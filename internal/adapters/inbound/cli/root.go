package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "guardrails",
		Short:         "Enforce codebase policies before code ships",
		Long:          "Guardrails runs structural policy checks, static analysis, and LLM-assisted qualitative reviews against a polyglot workspace.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPoliciesCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newUnusedCmd())
	cmd.AddCommand(newReviewCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
