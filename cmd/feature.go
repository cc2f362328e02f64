package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var newFeatureCmd = &cobra.Command{
	Use:   "new-feature [name]",
	Short: "Sync main and start a feature branch from its tip",
	Long: `Syncs main with upstream, then creates and switches to feature/<name>.
The name is normalized to a slug: lowercase, with runs of non-alphanumeric
characters collapsed to hyphens.`,
	Args: cobra.ArbitraryArgs,
	RunE: runNewFeature,
}

func init() {
	rootCmd.AddCommand(newFeatureCmd)
}

func runNewFeature(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	handle, err := w.NewFeature(cmd.Context(), strings.Join(args, " "))
	stashHint(handle)
	return err
}
