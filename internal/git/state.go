package git

import (
	"context"
	"strings"
)

// State classifies what the repository is in the middle of. It is derived
// fresh on every call, never cached.
type State int

const (
	// StateClean means no uncommitted changes and no in-progress operation.
	StateClean State = iota
	// StateDirty means modified, staged, or untracked files are present.
	StateDirty
	// StateRebaseInProgress means a rebase is paused or mid-flight.
	StateRebaseInProgress
	// StateMergeInProgress means a merge is awaiting resolution.
	StateMergeInProgress
)

func (st State) String() string {
	switch st {
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateRebaseInProgress:
		return "rebase-in-progress"
	case StateMergeInProgress:
		return "merge-in-progress"
	default:
		return "unknown"
	}
}

// IsRebaseInProgress reports whether a rebase is underway. REBASE_HEAD
// exists for the whole lifetime of a paused or conflicted rebase.
func (s *GitService) IsRebaseInProgress(ctx context.Context, repoPath string) bool {
	return s.gitQuiet(ctx, repoPath, "rev-parse", "--verify", "--quiet", "REBASE_HEAD")
}

// IsMergeInProgress reports whether a merge is awaiting resolution.
func (s *GitService) IsMergeInProgress(ctx context.Context, repoPath string) bool {
	return s.gitQuiet(ctx, repoPath, "rev-parse", "--verify", "--quiet", "MERGE_HEAD")
}

// IsDirty reports whether the working tree has modified, staged, or
// untracked files.
func (s *GitService) IsDirty(ctx context.Context, repoPath string) (bool, error) {
	out, err := s.git(ctx, repoPath, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

// Classify returns the repository state. Rebase and merge take precedence
// over dirtiness since they block every mutating operation outright.
func (s *GitService) Classify(ctx context.Context, repoPath string) (State, error) {
	if s.IsRebaseInProgress(ctx, repoPath) {
		return StateRebaseInProgress, nil
	}
	if s.IsMergeInProgress(ctx, repoPath) {
		return StateMergeInProgress, nil
	}
	dirty, err := s.IsDirty(ctx, repoPath)
	if err != nil {
		return StateClean, err
	}
	if dirty {
		return StateDirty, nil
	}
	return StateClean, nil
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (s *GitService) CurrentBranch(ctx context.Context, repoPath string) (string, error) {
	return s.git(ctx, repoPath, "rev-parse", "--abbrev-ref", "HEAD")
}
