package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how the current branch relates to upstream",
	Long: `Fetches upstream and reports commits on the current branch that are not
in upstream, and commits in upstream not yet merged locally. Read-only.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	return w.Status(cmd.Context())
}
