package git

import (
	"context"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhubert/forktend/internal/exec"
)

var ctx = context.Background()

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

func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", message)
}

// newRepo creates a single-commit repository on branch main.
func newRepo(t *testing.T) string {
	t.Helper()
	if _, err := osexec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	commitFile(t, dir, "README.md", "hello\n", "Initial commit")
	return dir
}

func TestIsRepo(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	assert.True(t, svc.IsRepo(ctx, dir))
	assert.False(t, svc.IsRepo(ctx, t.TempDir()))
}

func TestClassify(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	state, err := svc.Classify(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, StateClean, state)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "wip.txt"), []byte("wip\n"), 0644))
	state, err = svc.Classify(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, StateDirty, state)
}

func TestClassify_RebaseTakesPrecedence(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	runGit(t, dir, "checkout", "-b", "feature")
	commitFile(t, dir, "shared.txt", "feature\n", "Feature edit")
	runGit(t, dir, "checkout", "main")
	commitFile(t, dir, "shared.txt", "main\n", "Main edit")
	runGit(t, dir, "checkout", "feature")

	cmd := osexec.Command("git", "rebase", "main")
	cmd.Dir = dir
	require.Error(t, cmd.Run(), "rebase should stop on conflict")

	// Mid-rebase the tree has conflict markers, so it is also dirty.
	state, err := svc.Classify(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, StateRebaseInProgress, state)
	assert.True(t, svc.IsRebaseInProgress(ctx, dir))

	paths, err := svc.ConflictedPaths(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared.txt"}, paths)

	require.NoError(t, svc.RebaseAbort(ctx, dir))
	assert.False(t, svc.IsRebaseInProgress(ctx, dir))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "clean", StateClean.String())
	assert.Equal(t, "dirty", StateDirty.String())
	assert.Equal(t, "rebase-in-progress", StateRebaseInProgress.String())
	assert.Equal(t, "merge-in-progress", StateMergeInProgress.String())
}

func TestBranchOperations(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	assert.True(t, svc.BranchExists(ctx, dir, "main"))
	assert.False(t, svc.BranchExists(ctx, dir, "feature/x"))

	require.NoError(t, svc.CreateBranchAt(ctx, dir, "feature/x", "main"))
	assert.True(t, svc.BranchExists(ctx, dir, "feature/x"))

	// CreateBranchAt does not switch.
	branch, err := svc.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	require.NoError(t, svc.Checkout(ctx, dir, "feature/x"))
	branch, err = svc.CurrentBranch(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, "feature/x", branch)
}

func TestForceResetBranch(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()
	base := runGit(t, dir, "rev-parse", "main")

	commitFile(t, dir, "extra.txt", "extra\n", "Extra commit")

	// Resetting the checked-out branch uses reset --hard.
	require.NoError(t, svc.ForceResetBranch(ctx, dir, "main", base))
	assert.Equal(t, base, runGit(t, dir, "rev-parse", "main"))

	// Resetting a non-current branch moves the pointer without touching HEAD.
	commitFile(t, dir, "extra.txt", "extra\n", "Extra commit")
	tip := runGit(t, dir, "rev-parse", "main")
	runGit(t, dir, "branch", "other", base)
	require.NoError(t, svc.ForceResetBranch(ctx, dir, "other", "main"))
	assert.Equal(t, tip, runGit(t, dir, "rev-parse", "other"))
	assert.Equal(t, "main", runGit(t, dir, "rev-parse", "--abbrev-ref", "HEAD"))
}

func TestCountsAndLog(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	runGit(t, dir, "branch", "base")
	commitFile(t, dir, "a.txt", "a\n", "Commit A")
	commitFile(t, dir, "b.txt", "b\n", "Commit B")

	n, err := svc.CountAhead(ctx, dir, "base", "main")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	ahead, behind, err := svc.AheadBehind(ctx, dir, "base", "main")
	require.NoError(t, err)
	assert.Equal(t, 2, ahead)
	assert.Equal(t, 0, behind)

	commits, err := svc.CommitsBetween(ctx, dir, "base", "main")
	require.NoError(t, err)
	require.Len(t, commits, 2)
	assert.Contains(t, commits[0], "Commit B")
	assert.Contains(t, commits[1], "Commit A")

	commits, err = svc.CommitsBetween(ctx, dir, "main", "base")
	require.NoError(t, err)
	assert.Empty(t, commits)
}

func TestMergeFFOnly(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	runGit(t, dir, "checkout", "-b", "ahead")
	commitFile(t, dir, "a.txt", "a\n", "Commit A")
	runGit(t, dir, "checkout", "main")

	require.NoError(t, svc.MergeFFOnly(ctx, dir, "ahead"))
	assert.Equal(t, runGit(t, dir, "rev-parse", "ahead"), runGit(t, dir, "rev-parse", "main"))

	// Diverged branches cannot fast-forward.
	commitFile(t, dir, "main.txt", "m\n", "Main only")
	runGit(t, dir, "checkout", "ahead")
	commitFile(t, dir, "ahead.txt", "a\n", "Ahead only")
	runGit(t, dir, "checkout", "main")
	assert.Error(t, svc.MergeFFOnly(ctx, dir, "ahead"))
}

func TestStashRoundTrip(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.txt"), []byte("new\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("edited\n"), 0644))

	require.NoError(t, svc.StashPushAll(ctx, dir, "autostash-test-1234"))
	dirty, err := svc.IsDirty(ctx, dir)
	require.NoError(t, err)
	assert.False(t, dirty, "stash push should leave a clean tree")

	st, err := svc.FindStashByMessage(ctx, dir, "autostash-test-1234")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, "stash@{0}", st.Ref)

	st2, err := svc.FindStashByMessage(ctx, dir, "no-such-message")
	require.NoError(t, err)
	assert.Nil(t, st2)

	_, err = svc.StashPop(ctx, dir, st.Ref)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "untracked.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))

	stashes, err := svc.StashList(ctx, dir)
	require.NoError(t, err)
	assert.Empty(t, stashes)
}

func TestRemoteOperations(t *testing.T) {
	dir := newRepo(t)
	svc := NewGitService()
	remoteDir := t.TempDir()
	runGit(t, remoteDir, "init", "--bare", "-b", "main")

	assert.False(t, svc.HasRemote(ctx, dir, "upstream"))
	require.NoError(t, svc.AddRemote(ctx, dir, "upstream", remoteDir))
	assert.True(t, svc.HasRemote(ctx, dir, "upstream"))

	url, err := svc.RemoteURL(ctx, dir, "upstream")
	require.NoError(t, err)
	assert.Equal(t, remoteDir, url)

	require.NoError(t, svc.Push(ctx, dir, "upstream", "main"))
	require.NoError(t, svc.Fetch(ctx, dir, "upstream"))
	assert.True(t, svc.RemoteRefExists(ctx, dir, "upstream", "main"))
	assert.False(t, svc.RemoteRefExists(ctx, dir, "upstream", "develop"))
}

func TestAheadBehind_ParsesLeftRightCount(t *testing.T) {
	mockExec := exec.NewMockExecutor(nil)
	mockExec.AddPrefixMatch("git", []string{"rev-list", "--left-right", "--count"},
		exec.MockResponse{Stdout: []byte("3\t5\n")})
	svc := NewGitServiceWithExecutor(mockExec)

	ahead, behind, err := svc.AheadBehind(ctx, "/repo", "base", "tip")
	require.NoError(t, err)
	assert.Equal(t, 5, ahead)
	assert.Equal(t, 3, behind)
}

func TestAheadBehind_RejectsGarbage(t *testing.T) {
	mockExec := exec.NewMockExecutor(nil)
	mockExec.AddPrefixMatch("git", []string{"rev-list"},
		exec.MockResponse{Stdout: []byte("not a count\n")})
	svc := NewGitServiceWithExecutor(mockExec)

	_, _, err := svc.AheadBehind(ctx, "/repo", "base", "tip")
	assert.Error(t, err)
	_, err = svc.CountAhead(ctx, "/repo", "base", "tip")
	assert.Error(t, err)
}

func TestGitError_IncludesOutput(t *testing.T) {
	mockExec := exec.NewMockExecutor(nil)
	mockExec.AddPrefixMatch("git", []string{"merge"},
		exec.MockResponse{Stderr: []byte("fatal: Not possible to fast-forward, aborting.\n"), Err: assert.AnError})
	svc := NewGitServiceWithExecutor(mockExec)

	err := svc.MergeFFOnly(ctx, "/repo", "upstream/main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not possible to fast-forward")
	assert.Contains(t, err.Error(), "git merge --ff-only upstream/main")
}
