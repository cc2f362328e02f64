package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/forktend/internal/notification"
	"github.com/zhubert/forktend/internal/ui"
)

var repairMainCmd = &cobra.Command{
	Use:   "repair-main [name]",
	Short: "Move private commits off main onto a feature branch",
	Long: `When main carries commits upstream does not have, fast-forward syncing is
impossible. Repair relocates those commits: a backup branch and a feature
branch are created at main's current tip, then main is reset to the upstream
tip and force-pushed with lease. No commit becomes unreachable.

The feature branch name defaults to a timestamp; pass one to choose it.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRepairMain,
}

func init() {
	rootCmd.AddCommand(repairMainCmd)
}

func runRepairMain(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}
	if err := w.RepairMain(cmd.Context(), strings.Join(args, " ")); err != nil {
		return err
	}
	fmt.Println(ui.SuccessStyle.Render("Repair complete."))
	if cfg.Notifications {
		notification.SyncCompleted("repair-main")
	}
	return nil
}
