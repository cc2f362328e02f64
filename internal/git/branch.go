package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zhubert/forktend/internal/logger"
)

// BranchExists reports whether a local branch with the given name exists.
func (s *GitService) BranchExists(ctx context.Context, repoPath, name string) bool {
	return s.gitQuiet(ctx, repoPath, "rev-parse", "--verify", "--quiet", "refs/heads/"+name)
}

// CreateBranchAt creates a branch pointing at the given ref without
// switching to it.
func (s *GitService) CreateBranchAt(ctx context.Context, repoPath, name, at string) error {
	log := logger.WithComponent("git")
	log.Info("creating branch", "name", name, "at", at)
	_, err := s.git(ctx, repoPath, "branch", name, at)
	return err
}

// Checkout switches to an existing branch.
func (s *GitService) Checkout(ctx context.Context, repoPath, name string) error {
	_, err := s.git(ctx, repoPath, "checkout", name)
	return err
}

// CheckoutNew creates a branch at the given start point and switches to it.
func (s *GitService) CheckoutNew(ctx context.Context, repoPath, name, start string) error {
	log := logger.WithComponent("git")
	log.Info("creating and switching to branch", "name", name, "start", start)
	_, err := s.git(ctx, repoPath, "checkout", "-b", name, start)
	return err
}

// SetUpstream points the branch's tracking configuration at a remote ref.
func (s *GitService) SetUpstream(ctx context.Context, repoPath, branch, remoteRef string) error {
	_, err := s.git(ctx, repoPath, "branch", "--set-upstream-to="+remoteRef, branch)
	return err
}

// ForceResetBranch moves a branch to the given ref. When the branch is
// checked out this requires a hard reset; otherwise the branch pointer is
// moved directly.
func (s *GitService) ForceResetBranch(ctx context.Context, repoPath, branch, to string) error {
	log := logger.WithComponent("git")
	log.Warn("force-resetting branch", "branch", branch, "to", to)

	current, err := s.CurrentBranch(ctx, repoPath)
	if err != nil {
		return err
	}
	if current == branch {
		_, err = s.git(ctx, repoPath, "reset", "--hard", to)
		return err
	}
	_, err = s.git(ctx, repoPath, "branch", "-f", branch, to)
	return err
}

// MergeFFOnly fast-forwards the current branch to the given ref. Fails when
// the branch has diverged from the ref.
func (s *GitService) MergeFFOnly(ctx context.Context, repoPath, ref string) error {
	_, err := s.git(ctx, repoPath, "merge", "--ff-only", ref)
	return err
}

// CountAhead returns how many commits tip has that base does not.
func (s *GitService) CountAhead(ctx context.Context, repoPath, base, tip string) (int, error) {
	out, err := s.git(ctx, repoPath, "rev-list", "--count", base+".."+tip)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	return n, nil
}

// AheadBehind returns how many commits tip is ahead of and behind base.
func (s *GitService) AheadBehind(ctx context.Context, repoPath, base, tip string) (ahead, behind int, err error) {
	out, err := s.git(ctx, repoPath, "rev-list", "--left-right", "--count", base+"..."+tip)
	if err != nil {
		return 0, 0, err
	}
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q", out)
	}
	behind, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	ahead, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unexpected rev-list output %q: %w", out, err)
	}
	return ahead, behind, nil
}

// CommitsBetween returns the one-line log of commits in base..tip, newest
// first. Empty when tip carries nothing base lacks.
func (s *GitService) CommitsBetween(ctx context.Context, repoPath, base, tip string) ([]string, error) {
	out, err := s.git(ctx, repoPath, "log", "--oneline", base+".."+tip)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
