package fork

import (
	"context"

	"github.com/zhubert/forktend/internal/errors"
)

// SyncMain fast-forwards the local main branch onto the upstream tip and
// pushes the result to the fork's remote when one is configured. The
// original branch is restored before returning, on both success and
// divergence. Returns the guard's stash handle so composites can hand it on.
func (w *Workflow) SyncMain(ctx context.Context) (*StashHandle, error) {
	handle, err := w.Guard(ctx)
	if err != nil {
		return nil, err
	}
	if err := w.syncMainGuarded(ctx); err != nil {
		return handle, err
	}
	return handle, nil
}

// syncMainGuarded is SyncMain after the guard has run. Composites that have
// already guarded call this directly.
func (w *Workflow) syncMainGuarded(ctx context.Context) error {
	if err := w.ensureUpstreamRemote(ctx); err != nil {
		return err
	}
	w.printf("Fetching %s...\n", w.cfg.UpstreamRemote)
	if err := w.git.Fetch(ctx, w.repoPath, w.cfg.UpstreamRemote); err != nil {
		return errors.E(errors.Op("fork.SyncMain"), errors.KindGit, "fetch failed", err)
	}
	if err := w.ensureMainExists(ctx); err != nil {
		return err
	}

	original, err := w.git.CurrentBranch(ctx, w.repoPath)
	if err != nil {
		return errors.E(errors.Op("fork.SyncMain"), errors.KindGit, err)
	}

	main := w.cfg.MainBranch
	if original != main {
		if err := w.git.Checkout(ctx, w.repoPath, main); err != nil {
			return errors.E(errors.Op("fork.SyncMain"), errors.KindGit, err)
		}
	}

	// restore switches back to the branch the caller started on.
	restore := func() {
		if original == main {
			return
		}
		if err := w.git.Checkout(ctx, w.repoPath, original); err != nil {
			w.warnf("could not switch back to %s: %v", original, err)
		}
	}

	if err := w.git.MergeFFOnly(ctx, w.repoPath, w.upstreamRef()); err != nil {
		ahead, countErr := w.git.CountAhead(ctx, w.repoPath, w.upstreamRef(), main)
		restore()
		if countErr == nil && ahead > 0 {
			return errors.DivergedMain(main, ahead)
		}
		return errors.E(errors.Op("fork.SyncMain"), errors.KindGit, "fast-forward failed", err)
	}
	w.printf("%s is up to date with %s\n", main, w.upstreamRef())

	if w.git.HasRemote(ctx, w.repoPath, w.cfg.OriginRemote) {
		if err := w.git.Push(ctx, w.repoPath, w.cfg.OriginRemote, main); err != nil {
			w.warnf("push to %s failed (local %s is still correct): %v", w.cfg.OriginRemote, main, err)
		} else {
			w.printf("Pushed %s to %s\n", main, w.cfg.OriginRemote)
		}
	}

	restore()
	return nil
}

// RebaseOntoMain replays the current branch's commits on top of main. On
// conflict the rebase is left paused with the conflicting paths reported.
func (w *Workflow) RebaseOntoMain(ctx context.Context) error {
	if _, err := w.Guard(ctx); err != nil {
		return err
	}
	return w.rebaseGuarded(ctx)
}

func (w *Workflow) rebaseGuarded(ctx context.Context) error {
	branch, err := w.git.CurrentBranch(ctx, w.repoPath)
	if err != nil {
		return errors.E(errors.Op("fork.Rebase"), errors.KindGit, err)
	}
	if branch == w.cfg.MainBranch {
		return errors.AlreadyOnMain(branch)
	}

	w.printf("Rebasing %s onto %s...\n", branch, w.cfg.MainBranch)
	if err := w.git.Rebase(ctx, w.repoPath, w.cfg.MainBranch); err != nil {
		paths, pathsErr := w.git.ConflictedPaths(ctx, w.repoPath)
		if pathsErr == nil && len(paths) > 0 {
			w.printf("Rebase stopped with conflicts:\n")
			for _, p := range paths {
				w.printf("  %s\n", p)
			}
			w.printf("Resolve them, then run 'forktend sync-continue' (or 'forktend sync-abort').\n")
		}
		return errors.E(errors.Op("fork.Rebase"), errors.KindGit, "rebase stopped", err)
	}

	w.printf("Rebased %s onto %s.\n", branch, w.cfg.MainBranch)
	w.printf("Publish with: git push --force-with-lease %s %s\n", w.cfg.OriginRemote, branch)
	return nil
}

// Sync is the composite everyday operation: sync-main, then rebase the
// original branch onto the updated main unless the caller was already on
// main.
func (w *Workflow) Sync(ctx context.Context) (*StashHandle, error) {
	original, err := w.git.CurrentBranch(ctx, w.repoPath)
	if err != nil {
		return nil, errors.E(errors.Op("fork.Sync"), errors.KindGit, err)
	}

	handle, err := w.SyncMain(ctx)
	if err != nil {
		return handle, err
	}

	if original == w.cfg.MainBranch {
		return handle, nil
	}
	return handle, w.rebaseGuarded(ctx)
}

// SyncContinue resumes a conflicted rebase once every conflict is resolved.
func (w *Workflow) SyncContinue(ctx context.Context) error {
	if !w.git.IsRebaseInProgress(ctx, w.repoPath) {
		return errors.NoRebaseInProgress()
	}

	paths, err := w.git.ConflictedPaths(ctx, w.repoPath)
	if err != nil {
		return errors.E(errors.Op("fork.SyncContinue"), errors.KindGit, err)
	}
	if len(paths) > 0 {
		return errors.ConflictsRemaining(paths)
	}

	if err := w.git.RebaseContinue(ctx, w.repoPath); err != nil {
		return errors.E(errors.Op("fork.SyncContinue"), errors.KindGit, "rebase --continue failed", err)
	}

	if w.git.IsRebaseInProgress(ctx, w.repoPath) {
		w.printf("Rebase step applied; further steps remain. Resolve and re-run 'forktend sync-continue'.\n")
	} else {
		w.printf("Rebase complete.\n")
	}
	return nil
}

// SyncAbort abandons an in-progress rebase, restoring the pre-rebase state.
func (w *Workflow) SyncAbort(ctx context.Context) error {
	if !w.git.IsRebaseInProgress(ctx, w.repoPath) {
		return errors.NoRebaseInProgress()
	}
	if err := w.git.RebaseAbort(ctx, w.repoPath); err != nil {
		return errors.E(errors.Op("fork.SyncAbort"), errors.KindGit, err)
	}
	w.printf("Rebase aborted.\n")
	return nil
}
