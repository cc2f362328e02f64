package fork

import (
	"context"

	"github.com/zhubert/forktend/internal/errors"
)

// Status fetches upstream and reports how the current branch relates to the
// upstream branch. Read-only: it never mutates the repository.
func (w *Workflow) Status(ctx context.Context) error {
	if err := w.ensureUpstreamRemote(ctx); err != nil {
		return err
	}
	if err := w.git.Fetch(ctx, w.repoPath, w.cfg.UpstreamRemote); err != nil {
		return errors.E(errors.Op("fork.Status"), errors.KindGit, "fetch failed", err)
	}

	branch, err := w.git.CurrentBranch(ctx, w.repoPath)
	if err != nil {
		return errors.E(errors.Op("fork.Status"), errors.KindGit, err)
	}

	ahead, behind, err := w.git.AheadBehind(ctx, w.repoPath, w.upstreamRef(), branch)
	if err != nil {
		return errors.E(errors.Op("fork.Status"), errors.KindGit, err)
	}

	w.printf("On branch %s (upstream: %s)\n", branch, w.upstreamRef())
	if ahead == 0 && behind == 0 {
		w.printf("Up to date with upstream.\n")
		return nil
	}

	if ahead > 0 {
		w.printf("%d commit(s) on %s not in upstream:\n", ahead, branch)
		commits, err := w.git.CommitsBetween(ctx, w.repoPath, w.upstreamRef(), branch)
		if err == nil {
			for _, c := range commits {
				w.printf("  %s\n", c)
			}
		}
	}
	if behind > 0 {
		w.printf("%d commit(s) in upstream not merged into %s:\n", behind, branch)
		commits, err := w.git.CommitsBetween(ctx, w.repoPath, branch, w.upstreamRef())
		if err == nil {
			for _, c := range commits {
				w.printf("  %s\n", c)
			}
		}
	}
	return nil
}
