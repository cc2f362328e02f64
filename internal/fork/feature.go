package fork

import (
	"context"

	"github.com/zhubert/forktend/internal/errors"
)

// NewFeature syncs main and branches feature/<slug> off its tip. The
// requested name is normalized first; an empty result is rejected.
func (w *Workflow) NewFeature(ctx context.Context, name string) (*StashHandle, error) {
	slug := Slugify(name)
	if slug == "" {
		return nil, errors.EmptyName(name)
	}
	target := "feature/" + slug

	handle, err := w.Guard(ctx)
	if err != nil {
		return nil, err
	}

	if w.git.BranchExists(ctx, w.repoPath, target) {
		return handle, errors.BranchExists(target)
	}

	if err := w.syncMainGuarded(ctx); err != nil {
		return handle, err
	}

	if err := w.git.CheckoutNew(ctx, w.repoPath, target, w.cfg.MainBranch); err != nil {
		return handle, errors.E(errors.Op("fork.NewFeature"), errors.KindGit, err)
	}
	w.printf("Created and switched to %s (from %s)\n", target, w.cfg.MainBranch)
	return handle, nil
}
