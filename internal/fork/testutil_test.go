package fork

import (
	"bytes"
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/forktend/internal/config"
	"github.com/zhubert/forktend/internal/git"
)

// runGit runs a real git command in dir and fails the test on error.
func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := osexec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// commitFile writes a file and commits it.
func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", message)
}

// fixture models a fork setup: a living upstream repository, a bare origin
// the fork pushes to, and the fork clone itself.
type fixture struct {
	upstream string
	origin   string
	fork     string
	cfg      config.Fork
}

// newFixture builds the three-repo layout every workflow test runs against.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	tmp := t.TempDir()
	upstream := filepath.Join(tmp, "upstream")
	origin := filepath.Join(tmp, "origin.git")
	fork := filepath.Join(tmp, "fork")

	if err := os.MkdirAll(upstream, 0755); err != nil {
		t.Fatal(err)
	}
	runGit(t, upstream, "init", "-b", "main")
	runGit(t, upstream, "config", "user.email", "test@example.com")
	runGit(t, upstream, "config", "user.name", "Test User")
	commitFile(t, upstream, "README.md", "hello\n", "Initial commit")

	runGit(t, tmp, "clone", "--bare", upstream, origin)
	runGit(t, tmp, "clone", origin, fork)
	runGit(t, fork, "config", "user.email", "test@example.com")
	runGit(t, fork, "config", "user.name", "Test User")
	runGit(t, fork, "remote", "add", "upstream", upstream)
	runGit(t, fork, "fetch", "upstream")

	return &fixture{
		upstream: upstream,
		origin:   origin,
		fork:     fork,
		cfg: config.Fork{
			UpstreamRemote: "upstream",
			UpstreamURL:    upstream,
			UpstreamBranch: "main",
			MainBranch:     "main",
			OriginRemote:   "origin",
		},
	}
}

// workflow builds a Workflow over the fork with auto-confirmation and a
// captured output buffer.
func (f *fixture) workflow(t *testing.T) (*Workflow, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	w := New(git.NewGitService(), f.cfg, AutoConfirm{}, out, f.fork)
	return w, out
}

// advanceUpstream adds a commit to the upstream repository.
func (f *fixture) advanceUpstream(t *testing.T, name, message string) {
	t.Helper()
	commitFile(t, f.upstream, name, message+"\n", message)
}

// tip returns the commit hash a ref points at in the fork.
func (f *fixture) tip(t *testing.T, ref string) string {
	t.Helper()
	return runGit(t, f.fork, "rev-parse", ref)
}

// writeFile drops an uncommitted file into a repository.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

// startConflictedRebase leaves the fork paused mid-rebase: feature/conflict
// and main both edit the same line of the same file.
func startConflictedRebase(t *testing.T, f *fixture) {
	t.Helper()
	runGit(t, f.fork, "checkout", "-b", "feature/conflict")
	commitFile(t, f.fork, "shared.txt", "feature version\n", "Feature edit")
	runGit(t, f.fork, "checkout", "main")
	commitFile(t, f.fork, "shared.txt", "main version\n", "Main edit")
	runGit(t, f.fork, "checkout", "feature/conflict")

	cmd := osexec.Command("git", "rebase", "main")
	cmd.Dir = f.fork
	if err := cmd.Run(); err == nil {
		t.Fatal("expected rebase to stop on conflict")
	}
}

var ctx = context.Background()
