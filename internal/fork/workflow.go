// Package fork implements the fork maintenance workflow: keeping a fork's
// main branch synchronized with upstream while private work stays isolated
// on feature branches.
//
// Operations classify repository state through git on every call and never
// store it. The auto-stash created by the guard is threaded through as an
// explicit *StashHandle value rather than held in package state.
package fork

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhubert/forktend/internal/config"
	"github.com/zhubert/forktend/internal/errors"
	"github.com/zhubert/forktend/internal/git"
	"github.com/zhubert/forktend/internal/logger"
	"github.com/zhubert/forktend/internal/ui"
)

// AutoStashPrefix labels every stash this tool creates, so a later
// invocation can recognize its own stashes in git stash list.
const AutoStashPrefix = "forktend-autostash"

// Prompter asks the user to confirm a step. Implementations may be
// interactive or auto-confirming.
type Prompter interface {
	Confirm(title, body string) (bool, error)
}

// AutoConfirm is a Prompter that consents to everything. Used under
// FORKTEND_ASSUME_YES and in tests.
type AutoConfirm struct{}

func (AutoConfirm) Confirm(string, string) (bool, error) { return true, nil }

// StashHandle identifies an auto-stash created during this invocation.
// The stash ref index shifts as stashes come and go, so the handle carries
// the unique message and re-resolves the ref at consumption time.
type StashHandle struct {
	Message string
}

// Workflow orchestrates the fork maintenance operations for one repository.
type Workflow struct {
	git      *git.GitService
	cfg      config.Fork
	prompter Prompter
	out      io.Writer
	repoPath string
	now      func() time.Time
}

// New creates a Workflow for the repository at repoPath.
func New(g *git.GitService, cfg config.Fork, prompter Prompter, out io.Writer, repoPath string) *Workflow {
	return &Workflow{
		git:      g,
		cfg:      cfg,
		prompter: prompter,
		out:      out,
		repoPath: repoPath,
		now:      time.Now,
	}
}

func (w *Workflow) printf(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

func (w *Workflow) warnf(format string, args ...interface{}) {
	logger.Warn(format, args...)
	fmt.Fprintf(w.out, ui.WarningStyle.Render("Warning:")+" "+format+"\n", args...)
}

// upstreamRef is the remote-tracking ref of the upstream branch.
func (w *Workflow) upstreamRef() string {
	return w.cfg.UpstreamRemote + "/" + w.cfg.UpstreamBranch
}

// Guard blocks mutating operations while a rebase or merge is in progress
// and auto-stashes a dirty working tree after confirmation. The returned
// handle is nil when no stash was created.
func (w *Workflow) Guard(ctx context.Context) (*StashHandle, error) {
	state, err := w.git.Classify(ctx, w.repoPath)
	if err != nil {
		return nil, errors.E(errors.Op("fork.Guard"), errors.KindGit, err)
	}

	switch state {
	case git.StateRebaseInProgress:
		return nil, errors.OperationBlocked("rebase")
	case git.StateMergeInProgress:
		return nil, errors.OperationBlocked("merge")
	case git.StateClean:
		return nil, nil
	}

	ok, err := w.prompter.Confirm(
		"Uncommitted changes",
		"The working tree has uncommitted or untracked changes.\nStash them and continue? Restore later with 'forktend stash-pop'.",
	)
	if err != nil {
		return nil, errors.E(errors.Op("fork.Guard"), errors.KindInvalid, err)
	}
	if !ok {
		return nil, errors.UserAborted()
	}

	label := w.stashLabel()
	if err := w.git.StashPushAll(ctx, w.repoPath, label); err != nil {
		return nil, errors.E(errors.Op("fork.Guard"), errors.KindGit, "failed to stash changes", err)
	}

	dirty, err := w.git.IsDirty(ctx, w.repoPath)
	if err != nil {
		return nil, errors.E(errors.Op("fork.Guard"), errors.KindGit, err)
	}
	if dirty {
		return nil, errors.StashIncomplete()
	}

	w.printf("Stashed working tree changes as %q\n", label)
	return &StashHandle{Message: label}, nil
}

// stashLabel builds a unique auto-stash label. The short uuid keeps two
// stashes created within the same second distinguishable.
func (w *Workflow) stashLabel() string {
	ts := w.now().UTC().Format("20060102-150405")
	return fmt.Sprintf("%s-%s-%s", AutoStashPrefix, ts, uuid.NewString()[:8])
}

var slugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a requested feature name: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, trimmed.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ensureUpstreamRemote adds the configured upstream remote when it is
// missing. Fails when no URL is configured to add it from.
func (w *Workflow) ensureUpstreamRemote(ctx context.Context) error {
	if w.git.HasRemote(ctx, w.repoPath, w.cfg.UpstreamRemote) {
		return nil
	}
	if w.cfg.UpstreamURL == "" {
		return errors.E(
			errors.Op("fork.EnsureRemote"),
			errors.KindConfig,
			fmt.Sprintf("remote %q is not configured and FORKTEND_UPSTREAM_URL is not set", w.cfg.UpstreamRemote),
		)
	}
	w.printf("Adding remote %s -> %s\n", w.cfg.UpstreamRemote, w.cfg.UpstreamURL)
	if err := w.git.AddRemote(ctx, w.repoPath, w.cfg.UpstreamRemote, w.cfg.UpstreamURL); err != nil {
		return errors.E(errors.Op("fork.EnsureRemote"), errors.KindGit, err)
	}
	return nil
}

// ensureMainExists creates the local main branch at the upstream tip when it
// does not exist yet, without switching to it.
func (w *Workflow) ensureMainExists(ctx context.Context) error {
	if w.git.BranchExists(ctx, w.repoPath, w.cfg.MainBranch) {
		return nil
	}
	w.printf("Creating local %s from %s\n", w.cfg.MainBranch, w.upstreamRef())
	if err := w.git.CreateBranchAt(ctx, w.repoPath, w.cfg.MainBranch, w.upstreamRef()); err != nil {
		return errors.E(errors.Op("fork.EnsureMain"), errors.KindGit, err)
	}
	if err := w.git.SetUpstream(ctx, w.repoPath, w.cfg.MainBranch, w.upstreamRef()); err != nil {
		w.warnf("could not set tracking for %s: %v", w.cfg.MainBranch, err)
	}
	return nil
}
