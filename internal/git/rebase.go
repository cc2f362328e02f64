package git

import (
	"context"
	"strings"

	"github.com/zhubert/forktend/internal/logger"
)

// Rebase replays the current branch's commits onto the given ref. On
// conflict git leaves the rebase paused; the returned error carries git's
// output and ConflictedPaths reports the blocked files.
func (s *GitService) Rebase(ctx context.Context, repoPath, onto string) error {
	log := logger.WithComponent("git")
	log.Info("rebasing onto", "ref", onto)
	_, err := s.git(ctx, repoPath, "rebase", onto)
	return err
}

// RebaseContinue resumes a paused rebase without opening an editor.
func (s *GitService) RebaseContinue(ctx context.Context, repoPath string) error {
	_, err := s.git(ctx, repoPath, "-c", "core.editor=true", "rebase", "--continue")
	return err
}

// RebaseAbort abandons an in-progress rebase and restores the pre-rebase
// state.
func (s *GitService) RebaseAbort(ctx context.Context, repoPath string) error {
	log := logger.WithComponent("git")
	log.Info("aborting rebase")
	_, err := s.git(ctx, repoPath, "rebase", "--abort")
	return err
}

// ConflictedPaths lists files with unresolved merge conflicts.
func (s *GitService) ConflictedPaths(ctx context.Context, repoPath string) ([]string, error) {
	out, err := s.git(ctx, repoPath, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
