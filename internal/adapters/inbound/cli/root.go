package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "donegate",
		Short:         "Decide whether work is actually done",
		Long:          "Donegate runs a battery of quality gates against a work item, reports evidence-backed results, and predicts future failure risk from accumulated validation history.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd(validateTaskUse))
	cmd.AddCommand(newValidateCmd(validateFeatureUse))
	cmd.AddCommand(newValidateCmd(validateProjectUse))
	cmd.AddCommand(newValidateCmd(validateCommitUse))
	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newMonitorCmd())
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
