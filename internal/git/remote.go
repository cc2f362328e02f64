package git

import (
	"context"

	"github.com/zhubert/forktend/internal/logger"
)

// HasRemote reports whether a remote with the given name is configured.
func (s *GitService) HasRemote(ctx context.Context, repoPath, name string) bool {
	return s.gitQuiet(ctx, repoPath, "remote", "get-url", name)
}

// RemoteURL returns the fetch URL of a remote.
func (s *GitService) RemoteURL(ctx context.Context, repoPath, name string) (string, error) {
	return s.git(ctx, repoPath, "remote", "get-url", name)
}

// AddRemote registers a new remote.
func (s *GitService) AddRemote(ctx context.Context, repoPath, name, url string) error {
	log := logger.WithComponent("git")
	log.Info("adding remote", "name", name, "url", url)
	_, err := s.git(ctx, repoPath, "remote", "add", name, url)
	return err
}

// Fetch updates the remote-tracking refs for a remote.
func (s *GitService) Fetch(ctx context.Context, repoPath, remote string) error {
	_, err := s.git(ctx, repoPath, "fetch", remote)
	return err
}

// Push pushes a branch to a remote.
func (s *GitService) Push(ctx context.Context, repoPath, remote, branch string) error {
	_, err := s.git(ctx, repoPath, "push", remote, branch)
	return err
}

// PushForceWithLease force-pushes a branch, rejected if the remote ref moved
// since it was last fetched.
func (s *GitService) PushForceWithLease(ctx context.Context, repoPath, remote, branch string) error {
	log := logger.WithComponent("git")
	log.Warn("force-pushing with lease", "remote", remote, "branch", branch)
	_, err := s.git(ctx, repoPath, "push", "--force-with-lease", remote, branch)
	return err
}

// RemoteRefExists reports whether a remote-tracking ref is known locally.
func (s *GitService) RemoteRefExists(ctx context.Context, repoPath, remote, branch string) bool {
	return s.gitQuiet(ctx, repoPath, "rev-parse", "--verify", "--quiet", "refs/remotes/"+remote+"/"+branch)
}
