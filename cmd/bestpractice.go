package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/forktend/internal/ui"
)

var bestPracticeCmd = &cobra.Command{
	Use:   "best-practice",
	Short: "Show the recommended fork maintenance workflow",
	Run:   runBestPractice,
}

func init() {
	rootCmd.AddCommand(bestPracticeCmd)
}

func runBestPractice(cmd *cobra.Command, args []string) {
	section := func(title string) {
		fmt.Println()
		fmt.Println(ui.TitleStyle.Render(title))
	}
	cmdLine := func(c, desc string) {
		fmt.Printf("  %s  %s\n", ui.CommandStyle.Render(c), desc)
	}

	fmt.Println(ui.TitleStyle.Render("Keeping a fork healthy"))
	fmt.Println(`
The rule is simple: main mirrors upstream, private work lives on
feature/* branches. Main never carries commits upstream does not have.`)

	section("Daily")
	cmdLine("forktend status       ", "see where you stand before touching anything")
	cmdLine("forktend sync         ", "update main, rebase your feature branch onto it")

	section("Starting work")
	cmdLine("forktend new-feature x", "branch feature/x off a freshly synced main")

	section("When main has drifted")
	fmt.Println(`  If commits landed on main directly, sync-main refuses to fast-forward.`)
	cmdLine("forktend repair-main  ", "move those commits to a feature branch, keep a backup")

	section("When a rebase stops on conflicts")
	cmdLine("forktend sync-continue", "after resolving and staging the conflicted files")
	cmdLine("forktend sync-abort   ", "to give up and restore the pre-rebase state")

	section("Uncommitted work")
	fmt.Println(`  Mutating operations stash dirty changes (with your consent) under a
  recognizable label.`)
	cmdLine("forktend stash-pop    ", "restore them when the operation is done")
}
