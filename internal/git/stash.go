package git

import (
	"context"
	"strings"

	"github.com/zhubert/forktend/internal/logger"
)

// Stash is one entry from git stash list.
type Stash struct {
	Ref     string // e.g. "stash@{0}"
	Message string
}

// StashPushAll stashes all tracked and untracked changes under the given
// message.
func (s *GitService) StashPushAll(ctx context.Context, repoPath, message string) error {
	log := logger.WithComponent("git")
	log.Info("stashing working tree", "message", message)
	_, err := s.git(ctx, repoPath, "stash", "push", "--include-untracked", "-m", message)
	return err
}

// StashList returns all stashes, newest first.
func (s *GitService) StashList(ctx context.Context, repoPath string) ([]Stash, error) {
	out, err := s.git(ctx, repoPath, "stash", "list", "--format=%gd\x1f%s")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	var stashes []Stash
	for _, line := range strings.Split(out, "\n") {
		ref, msg, ok := strings.Cut(line, "\x1f")
		if !ok {
			continue
		}
		stashes = append(stashes, Stash{Ref: ref, Message: msg})
	}
	return stashes, nil
}

// FindStashByMessage returns the most recent stash whose message contains
// the given substring, or nil when none matches.
func (s *GitService) FindStashByMessage(ctx context.Context, repoPath, substr string) (*Stash, error) {
	stashes, err := s.StashList(ctx, repoPath)
	if err != nil {
		return nil, err
	}
	for _, st := range stashes {
		if strings.Contains(st.Message, substr) {
			return &st, nil
		}
	}
	return nil, nil
}

// StashPop applies and drops the given stash. The returned output includes
// any conflict report; err is non-nil when the pop did not apply cleanly.
func (s *GitService) StashPop(ctx context.Context, repoPath, ref string) (string, error) {
	log := logger.WithComponent("git")
	log.Info("popping stash", "ref", ref)
	return s.git(ctx, repoPath, "stash", "pop", ref)
}
