package cmd

import (
	"context"
	"fmt"

	huh "charm.land/huh/v2"
	"github.com/spf13/cobra"

	"github.com/zhubert/forktend/internal/errors"
	"github.com/zhubert/forktend/internal/fork"
	"github.com/zhubert/forktend/internal/ui"
)

// menuOp pairs an operation with its menu presentation. The interactive
// loop is a thin driver over this table; the operations themselves know
// nothing about the menu.
type menuOp struct {
	id          string
	description string
	run         func(ctx context.Context, w *fork.Workflow) error
}

func menuOps() []menuOp {
	return []menuOp{
		{
			id:          "status",
			description: "Fetch upstream and show how this branch relates to it (read-only).",
			run: func(ctx context.Context, w *fork.Workflow) error {
				return w.Status(ctx)
			},
		},
		{
			id:          "new-feature",
			description: "Sync main and start a feature branch from its tip.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				name, err := promptFeatureName()
				if err != nil {
					return err
				}
				handle, err := w.NewFeature(ctx, name)
				stashHint(handle)
				return err
			},
		},
		{
			id:          "sync",
			description: "Fast-forward main onto upstream, then rebase this branch onto main.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				handle, err := w.Sync(ctx)
				stashHint(handle)
				return err
			},
		},
		{
			id:          "sync-main",
			description: "Fast-forward main onto the upstream tip and push it.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				handle, err := w.SyncMain(ctx)
				stashHint(handle)
				return err
			},
		},
		{
			id:          "repair-main",
			description: "Move private commits off main onto a feature branch (with backup).",
			run: func(ctx context.Context, w *fork.Workflow) error {
				return w.RepairMain(ctx, "")
			},
		},
		{
			id:          "sync-branch",
			description: "Rebase the current branch onto main.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				return w.RebaseOntoMain(ctx)
			},
		},
		{
			id:          "sync-continue",
			description: "Continue the paused rebase after resolving conflicts.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				return w.SyncContinue(ctx)
			},
		},
		{
			id:          "sync-abort",
			description: "Abort the paused rebase and restore the pre-rebase state.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				return w.SyncAbort(ctx)
			},
		},
		{
			id:          "stash-pop",
			description: "Restore the most recent forktend auto-stash.",
			run: func(ctx context.Context, w *fork.Workflow) error {
				return w.StashPop(ctx, nil)
			},
		},
	}
}

// promptFeatureName collects the feature branch name for the menu's
// new-feature entry.
func promptFeatureName() (string, error) {
	var name string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Feature name").
				Description("Normalized to feature/<slug>.").
				Value(&name),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return name, nil
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick fork workflow operations interactively",
	RunE:  runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runMenu(cmd *cobra.Command, args []string) error {
	w, err := newWorkflow()
	if err != nil {
		return err
	}

	ops := menuOps()
	byID := make(map[string]menuOp, len(ops))
	options := make([]huh.Option[string], 0, len(ops)+1)
	for _, op := range ops {
		byID[op.id] = op
		options = append(options, huh.NewOption(op.id, op.id))
	}
	options = append(options, huh.NewOption("quit", "quit"))

	prompter := newPrompter()
	for {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("forktend").
					Options(options...).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
		if choice == "quit" {
			return nil
		}

		op := byID[choice]
		ok, err := prompter.Confirm("Run "+op.id+"?", op.description)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		if err := op.run(cmd.Context(), w); err != nil {
			if errors.Is(err, errors.KindUserAborted) {
				fmt.Println("Aborted.")
				continue
			}
			// Stay in the loop: report the failure and offer the menu again.
			fmt.Println(ui.ErrorStyle.Render("Error: ") + err.Error())
			if hint := errors.GetHint(err); hint != "" {
				fmt.Println(ui.HintStyle.Render("  hint: " + hint))
			}
		}
	}
}
