// Package errors provides structured error types for forktend.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindMissingDependency
	KindSupervisorUnavailable
	KindOperationBlocked
	KindUserAborted
	KindStashIncomplete
	KindDivergedMain
	KindBranchExists
	KindEmptyName
	KindAlreadyOnMain
	KindConflictsRemaining
	KindNoRebaseInProgress
	KindNoAutoStash
	KindGit
	KindConfig
	KindIO
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindMissingDependency:
		return "missing dependency"
	case KindSupervisorUnavailable:
		return "supervisor unavailable"
	case KindOperationBlocked:
		return "operation blocked"
	case KindUserAborted:
		return "aborted by user"
	case KindStashIncomplete:
		return "stash incomplete"
	case KindDivergedMain:
		return "main has diverged"
	case KindBranchExists:
		return "branch exists"
	case KindEmptyName:
		return "empty name"
	case KindAlreadyOnMain:
		return "already on main"
	case KindConflictsRemaining:
		return "conflicts remaining"
	case KindNoRebaseInProgress:
		return "no rebase in progress"
	case KindNoAutoStash:
		return "no auto-stash"
	case KindGit:
		return "git error"
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for forktend.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
	Hint    string // Remediation shown to the user after the diagnosis
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// GetHint returns the remediation hint attached to an error, if any.
func GetHint(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Hint
	}
	return ""
}

// withHint attaches a remediation hint to an Error built by E.
func withHint(err error, hint string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Hint = hint
	}
	return err
}

// Dependency errors

func MissingDependency(name string) error {
	return withHint(
		E(Op("deps.Check"), KindMissingDependency, fmt.Sprintf("required tool '%s' not found in PATH", name)),
		fmt.Sprintf("install %s and re-run", name),
	)
}

// Service errors

func SupervisorUnavailable(err error) error {
	return withHint(
		E(Op("service.Check"), KindSupervisorUnavailable, "cannot reach the user systemd session", err),
		"enable lingering with 'forktend service linger' (or: loginctl enable-linger $USER)",
	)
}

// Workflow errors

func OperationBlocked(what string) error {
	return withHint(
		E(Op("fork.Guard"), KindOperationBlocked, fmt.Sprintf("a %s is in progress", what)),
		"resolve it first: 'forktend sync-continue' or 'forktend sync-abort'",
	)
}

func UserAborted() error {
	return E(Op("fork.Confirm"), KindUserAborted, "aborted")
}

func StashIncomplete() error {
	return withHint(
		E(Op("fork.Guard"), KindStashIncomplete, "working tree still dirty after stashing"),
		"inspect 'git status' and stash or commit the remainder manually",
	)
}

func DivergedMain(branch string, ahead int) error {
	return withHint(
		E(Op("fork.SyncMain"), KindDivergedMain, fmt.Sprintf("%s has %d commit(s) not in upstream; fast-forward is impossible", branch, ahead)),
		"run 'forktend repair-main' to move private commits onto a feature branch",
	)
}

func BranchExists(name string) error {
	return E(Op("fork.Branch"), KindBranchExists, fmt.Sprintf("branch %s already exists", name))
}

func EmptyName(raw string) error {
	return E(Op("fork.NewFeature"), KindEmptyName, fmt.Sprintf("%q normalizes to an empty branch name", raw))
}

func AlreadyOnMain(branch string) error {
	return withHint(
		E(Op("fork.Rebase"), KindAlreadyOnMain, fmt.Sprintf("current branch is %s; nothing to rebase", branch)),
		"switch to a feature branch first, or run 'forktend sync-main'",
	)
}

func ConflictsRemaining(paths []string) error {
	return withHint(
		E(Op("fork.SyncContinue"), KindConflictsRemaining, fmt.Sprintf("%d conflicted path(s) remain: %s", len(paths), summarizePaths(paths))),
		"resolve the conflicts, 'git add' the files, then re-run 'forktend sync-continue'",
	)
}

func NoRebaseInProgress() error {
	return E(Op("fork.Rebase"), KindNoRebaseInProgress, "no rebase in progress")
}

func NoAutoStash() error {
	return withHint(
		E(Op("fork.StashPop"), KindNoAutoStash, "no auto-stash found"),
		"see 'git stash list' for stashes created outside forktend",
	)
}

func summarizePaths(paths []string) string {
	const max = 5
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(paths[:max], ", "), len(paths)-max)
}
