package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/forktend/internal/notification"
	"github.com/zhubert/forktend/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync main with upstream, then rebase the current branch onto it",
	Long: `Fast-forwards main onto the upstream tip, pushes it to the fork's remote,
and rebases the current feature branch on top of the updated main. When run
from main itself, completes after the main sync alone.`,
	RunE: runSync,
}

var syncMainCmd = &cobra.Command{
	Use:   "sync-main",
	Short: "Fast-forward main onto the upstream tip",
	Long: `Fetches upstream and fast-forwards the local main branch onto it. Fails
without touching main when it has diverged; 'forktend repair-main' moves the
private commits out of the way.`,
	RunE: runSyncMain,
}

var syncBranchCmd = &cobra.Command{
	Use:   "sync-branch",
	Short: "Rebase the current branch onto main",
	RunE:  runSyncBranch,
}

var syncContinueCmd = &cobra.Command{
	Use:   "sync-continue",
	Short: "Continue a rebase after resolving conflicts",
	RunE:  runSyncContinue,
}

var syncAbortCmd = &cobra.Command{
	Use:   "sync-abort",
	Short: "Abort the in-progress rebase",
	RunE:  runSyncAbort,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(syncMainCmd)
	rootCmd.AddCommand(syncBranchCmd)
	rootCmd.AddCommand(syncContinueCmd)
	rootCmd.AddCommand(syncAbortCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	handle, err := w.Sync(cmd.Context())
	stashHint(handle)
	if err != nil {
		return err
	}
	fmt.Println(ui.SuccessStyle.Render("Sync complete."))
	if cfg.Notifications {
		notification.SyncCompleted("sync")
	}
	return nil
}

func runSyncMain(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	handle, err := w.SyncMain(cmd.Context())
	stashHint(handle)
	return err
}

func runSyncBranch(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	return w.RebaseOntoMain(cmd.Context())
}

func runSyncContinue(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	return w.SyncContinue(cmd.Context())
}

func runSyncAbort(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	return w.SyncAbort(cmd.Context())
}
