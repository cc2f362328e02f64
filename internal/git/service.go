// Package git provides the git primitives the fork workflow is built from.
//
// The package is organized into focused modules:
//   - service.go: GitService struct, constructor, command plumbing
//   - state.go: working-tree and in-progress-operation classification
//   - branch.go: branch and history queries, resets, merges
//   - remote.go: remotes, fetching, pushing
//   - rebase.go: rebase control and conflict queries
//   - stash.go: labeled stash create/list/pop
//
// Every method shells out to the git CLI through an exec.Executor so tests
// can run against either a real repository or a recorded mock.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhubert/forktend/internal/exec"
)

// GitService executes git operations in a repository.
type GitService struct {
	executor exec.Executor
}

// NewGitService creates a GitService backed by real command execution.
func NewGitService() *GitService {
	return &GitService{executor: exec.NewOSExecutor()}
}

// NewGitServiceWithExecutor creates a GitService with a custom executor.
// Used by tests to inject a mock.
func NewGitServiceWithExecutor(executor exec.Executor) *GitService {
	return &GitService{executor: executor}
}

// git runs a git command and returns its combined output as a trimmed string.
// On failure the output is folded into the error so callers surface what git
// actually said.
func (s *GitService) git(ctx context.Context, repoPath string, args ...string) (string, error) {
	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", args...)
	text := strings.TrimSpace(string(output))
	if err != nil {
		if text != "" {
			return text, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, text)
		}
		return text, fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return text, nil
}

// gitQuiet runs a git command purely for its exit code.
func (s *GitService) gitQuiet(ctx context.Context, repoPath string, args ...string) bool {
	return s.executor.Run(ctx, repoPath, "git", args...) == nil
}

// RevParse resolves a ref to a full commit hash.
func (s *GitService) RevParse(ctx context.Context, repoPath, ref string) (string, error) {
	return s.git(ctx, repoPath, "rev-parse", "--verify", ref)
}

// IsRepo reports whether the path is inside a git work tree.
func (s *GitService) IsRepo(ctx context.Context, repoPath string) bool {
	return s.gitQuiet(ctx, repoPath, "rev-parse", "--is-inside-work-tree")
}
