package fork

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhubert/forktend/internal/errors"
)

// RepairMain relocates private commits off main. Every commit reachable only
// from the pre-repair main tip stays reachable afterwards: a backup branch
// and a feature branch are both created at that tip before main is reset to
// upstream.
func (w *Workflow) RepairMain(ctx context.Context, name string) error {
	handle, err := w.Guard(ctx)
	if err != nil {
		return err
	}

	if err := w.ensureUpstreamRemote(ctx); err != nil {
		return err
	}
	w.printf("Fetching %s...\n", w.cfg.UpstreamRemote)
	if err := w.git.Fetch(ctx, w.repoPath, w.cfg.UpstreamRemote); err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, "fetch failed", err)
	}
	if err := w.ensureMainExists(ctx); err != nil {
		return err
	}

	main := w.cfg.MainBranch
	ahead, err := w.git.CountAhead(ctx, w.repoPath, w.upstreamRef(), main)
	if err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, err)
	}
	if ahead == 0 {
		w.printf("%s has no commits beyond %s; nothing to repair.\n", main, w.upstreamRef())
		return nil
	}

	ts := w.now().UTC().Format("20060102-150405")
	featureName := Slugify(name)
	if name != "" && featureName == "" {
		return errors.EmptyName(name)
	}
	if featureName == "" {
		featureName = "rescued-work-" + ts
	}

	backup := "backup/main-before-repair-" + ts
	feature := "feature/" + featureName
	if w.git.BranchExists(ctx, w.repoPath, backup) {
		return errors.BranchExists(backup)
	}
	if w.git.BranchExists(ctx, w.repoPath, feature) {
		return errors.BranchExists(feature)
	}

	commits, err := w.git.CommitsBetween(ctx, w.repoPath, w.upstreamRef(), main)
	if err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, err)
	}

	var plan strings.Builder
	fmt.Fprintf(&plan, "%d commit(s) will move from %s to %s:\n", len(commits), main, feature)
	for _, c := range commits {
		fmt.Fprintf(&plan, "  %s\n", c)
	}
	fmt.Fprintf(&plan, "A safety copy stays on %s.\n", backup)
	fmt.Fprintf(&plan, "%s will be reset to %s.", main, w.upstreamRef())

	ok, err := w.prompter.Confirm("Repair "+main, plan.String())
	if err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindInvalid, err)
	}
	if !ok {
		return errors.UserAborted()
	}

	// Branch creation comes strictly before the reset so the private
	// commits are never unreachable.
	if err := w.git.CreateBranchAt(ctx, w.repoPath, backup, main); err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, "failed to create backup branch", err)
	}
	w.printf("Created %s\n", backup)
	if err := w.git.CreateBranchAt(ctx, w.repoPath, feature, main); err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, "failed to create feature branch", err)
	}
	w.printf("Created %s\n", feature)

	if err := w.git.ForceResetBranch(ctx, w.repoPath, main, w.upstreamRef()); err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, "failed to reset main", err)
	}
	w.printf("Reset %s to %s\n", main, w.upstreamRef())

	if w.git.HasRemote(ctx, w.repoPath, w.cfg.OriginRemote) {
		if err := w.git.PushForceWithLease(ctx, w.repoPath, w.cfg.OriginRemote, main); err != nil {
			w.warnf("push to %s failed; local history is safe on %s and %s: %v", w.cfg.OriginRemote, backup, feature, err)
		} else {
			w.printf("Pushed %s to %s\n", main, w.cfg.OriginRemote)
		}
	}

	if err := w.git.Checkout(ctx, w.repoPath, feature); err != nil {
		return errors.E(errors.Op("fork.RepairMain"), errors.KindGit, err)
	}
	w.printf("Switched to %s\n", feature)

	// Hand the guard's auto-stash over to the new feature branch. When no
	// stash was created in this invocation there is nothing to restore.
	if handle != nil {
		if err := w.popHandle(ctx, handle); err != nil {
			return err
		}
	}
	return nil
}
