package fork

import (
	"context"
	"strings"

	"github.com/zhubert/forktend/internal/errors"
	"github.com/zhubert/forktend/internal/git"
)

// StashPop restores an auto-stash: the handle from this invocation when one
// exists, otherwise the most recent stash carrying the auto-stash label.
func (w *Workflow) StashPop(ctx context.Context, handle *StashHandle) error {
	st, err := w.findAutoStash(ctx, handle)
	if err != nil {
		return err
	}
	if st == nil {
		return errors.NoAutoStash()
	}

	ok, err := w.prompter.Confirm("Restore stash", "Pop "+st.Ref+" ("+st.Message+")?")
	if err != nil {
		return errors.E(errors.Op("fork.StashPop"), errors.KindInvalid, err)
	}
	if !ok {
		return errors.UserAborted()
	}

	return w.pop(ctx, st)
}

// popHandle restores the given invocation-local stash without a second
// confirmation; the operation that created it already asked.
func (w *Workflow) popHandle(ctx context.Context, handle *StashHandle) error {
	st, err := w.findAutoStash(ctx, handle)
	if err != nil {
		return err
	}
	if st == nil {
		// The stash vanished between creation and restore; surface it
		// rather than silently dropping the user's changes.
		return errors.NoAutoStash()
	}
	return w.pop(ctx, st)
}

func (w *Workflow) findAutoStash(ctx context.Context, handle *StashHandle) (*git.Stash, error) {
	needle := AutoStashPrefix
	if handle != nil {
		needle = handle.Message
	}
	st, err := w.git.FindStashByMessage(ctx, w.repoPath, needle)
	if err != nil {
		return nil, errors.E(errors.Op("fork.StashPop"), errors.KindGit, err)
	}
	return st, nil
}

// pop applies and drops the stash. Conflicts are reported but do not fail
// the process: git keeps the stash entry in that case so nothing is lost.
func (w *Workflow) pop(ctx context.Context, st *git.Stash) error {
	out, err := w.git.StashPop(ctx, w.repoPath, st.Ref)
	if err != nil {
		if strings.Contains(out, "CONFLICT") {
			w.printf("%s\n", out)
			w.warnf("stash pop hit conflicts; resolve them and 'git stash drop' when done")
			return nil
		}
		return errors.E(errors.Op("fork.StashPop"), errors.KindGit, err)
	}
	w.printf("Restored stashed changes (%s)\n", st.Message)
	return nil
}
