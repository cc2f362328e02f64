package cmd

import (
	"github.com/spf13/cobra"
)

var stashPopCmd = &cobra.Command{
	Use:   "stash-pop",
	Short: "Restore changes auto-stashed by an earlier forktend run",
	Long: `Pops the most recent stash carrying forktend's auto-stash label. Stashes
created by hand ('git stash' without the label) are never touched.`,
	RunE: runStashPop,
}

func init() {
	rootCmd.AddCommand(stashPopCmd)
}

func runStashPop(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	// Separate invocation: no in-process handle; re-derive from the label.
	return w.StashPop(cmd.Context(), nil)
}
