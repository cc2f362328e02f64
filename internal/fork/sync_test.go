package fork

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhubert/forktend/internal/errors"
)

func TestSyncMain_FastForwards(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	runGit(t, f.fork, "checkout", "-b", "feature/x")
	f.advanceUpstream(t, "new.txt", "Upstream change")

	handle, err := w.SyncMain(ctx)
	require.NoError(t, err)
	assert.Nil(t, handle)

	upstreamTip := runGit(t, f.upstream, "rev-parse", "main")
	assert.Equal(t, upstreamTip, f.tip(t, "main"), "main should match upstream")
	assert.Equal(t, "feature/x", runGit(t, f.fork, "rev-parse", "--abbrev-ref", "HEAD"),
		"original branch should be restored")

	// The fast-forwarded main was pushed to the fork's remote.
	originTip := runGit(t, f.origin, "rev-parse", "main")
	assert.Equal(t, upstreamTip, originTip)
}

func TestSyncMain_DivergedNeverMutates(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	commitFile(t, f.fork, "private.txt", "private\n", "Private commit on main")
	f.advanceUpstream(t, "new.txt", "Upstream change")
	mainBefore := f.tip(t, "main")

	_, err := w.SyncMain(ctx)
	assert.True(t, errors.Is(err, errors.KindDivergedMain), "got %v", err)
	assert.Equal(t, mainBefore, f.tip(t, "main"), "diverged main must not be touched")
	assert.Equal(t, "main", runGit(t, f.fork, "rev-parse", "--abbrev-ref", "HEAD"))
}

func TestSyncMain_CreatesMissingMain(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	runGit(t, f.fork, "checkout", "-b", "feature/x")
	runGit(t, f.fork, "branch", "-D", "main")

	_, err := w.SyncMain(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.tip(t, "upstream/main"), f.tip(t, "main"))
}

func TestNewFeature_NormalizesName(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	_, err := w.NewFeature(ctx, "My Feature!!")
	require.NoError(t, err)
	assert.Equal(t, "feature/my-feature", runGit(t, f.fork, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.Equal(t, f.tip(t, "main"), f.tip(t, "feature/my-feature"))
}

func TestNewFeature_EmptyName(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	for _, name := range []string{"", "!!!", "   "} {
		_, err := w.NewFeature(ctx, name)
		assert.True(t, errors.Is(err, errors.KindEmptyName), "name %q: got %v", name, err)
	}
}

func TestNewFeature_BranchExists(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	runGit(t, f.fork, "branch", "feature/taken")
	_, err := w.NewFeature(ctx, "Taken")
	assert.True(t, errors.Is(err, errors.KindBranchExists), "got %v", err)
}

func TestRebaseOntoMain_AlreadyOnMain(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	err := w.RebaseOntoMain(ctx)
	assert.True(t, errors.Is(err, errors.KindAlreadyOnMain), "got %v", err)
}

func TestSync_EndToEnd(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	// Local feature branch with one private commit.
	runGit(t, f.fork, "checkout", "-b", "feature/x")
	commitFile(t, f.fork, "feature.txt", "feature work\n", "Feature commit")

	// Upstream moves ahead by two.
	f.advanceUpstream(t, "one.txt", "Upstream one")
	f.advanceUpstream(t, "two.txt", "Upstream two")

	_, err := w.Sync(ctx)
	require.NoError(t, err)

	upstreamTip := runGit(t, f.upstream, "rev-parse", "main")
	assert.Equal(t, upstreamTip, f.tip(t, "main"))
	assert.Equal(t, "feature/x", runGit(t, f.fork, "rev-parse", "--abbrev-ref", "HEAD"))

	// feature/x is exactly one commit ahead of the updated main.
	ahead := runGit(t, f.fork, "rev-list", "--count", "main..feature/x")
	behind := runGit(t, f.fork, "rev-list", "--count", "feature/x..main")
	assert.Equal(t, "1", ahead)
	assert.Equal(t, "0", behind)
}

func TestSync_OnMainSkipsRebase(t *testing.T) {
	f := newFixture(t)
	w, out := f.workflow(t)

	f.advanceUpstream(t, "new.txt", "Upstream change")

	_, err := w.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main", runGit(t, f.fork, "rev-parse", "--abbrev-ref", "HEAD"))
	assert.NotContains(t, out.String(), "Rebasing")
}

func TestSyncContinue_NoRebase(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	err := w.SyncContinue(ctx)
	assert.True(t, errors.Is(err, errors.KindNoRebaseInProgress), "got %v", err)
}

func TestSyncContinue_ConflictsRemaining(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)
	startConflictedRebase(t, f)

	err := w.SyncContinue(ctx)
	assert.True(t, errors.Is(err, errors.KindConflictsRemaining), "got %v", err)
	assert.Contains(t, err.Error(), "shared.txt")
}

func TestSyncContinue_AfterResolution(t *testing.T) {
	f := newFixture(t)
	w, out := f.workflow(t)
	startConflictedRebase(t, f)

	writeFile(t, f.fork, "shared.txt", "resolved\n")
	runGit(t, f.fork, "add", "shared.txt")

	require.NoError(t, w.SyncContinue(ctx))
	assert.Contains(t, out.String(), "Rebase complete")
}

func TestSyncAbort_RestoresState(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)
	startConflictedRebase(t, f)
	featureTip := f.tip(t, "feature/conflict")

	require.NoError(t, w.SyncAbort(ctx))
	assert.Equal(t, featureTip, f.tip(t, "HEAD"))
	assert.Equal(t, "feature/conflict", runGit(t, f.fork, "rev-parse", "--abbrev-ref", "HEAD"))
}

func TestSyncAbort_NoRebase(t *testing.T) {
	f := newFixture(t)
	w, _ := f.workflow(t)

	err := w.SyncAbort(ctx)
	assert.True(t, errors.Is(err, errors.KindNoRebaseInProgress), "got %v", err)
}

func TestRebaseOntoMain_ReportsConflictPaths(t *testing.T) {
	f := newFixture(t)
	w, out := f.workflow(t)

	runGit(t, f.fork, "checkout", "-b", "feature/clash")
	commitFile(t, f.fork, "shared.txt", "feature version\n", "Feature edit")
	runGit(t, f.fork, "checkout", "main")
	commitFile(t, f.fork, "shared.txt", "main version\n", "Main edit")
	runGit(t, f.fork, "checkout", "feature/clash")

	err := w.RebaseOntoMain(ctx)
	require.Error(t, err)
	assert.Contains(t, out.String(), "shared.txt")
	assert.True(t, strings.Contains(out.String(), "sync-continue"))

	// Leave the repo usable for cleanup.
	runGit(t, f.fork, "rebase", "--abort")
}
