// Package exec abstracts external command execution so that git and
// systemctl traffic can be recorded and faked in tests.
package exec

import (
	"bytes"
	"context"
	osexec "os/exec"
	"strings"

	"github.com/zhubert/forktend/internal/logger"
)

// Executor runs external commands in a working directory.
type Executor interface {
	// Run executes the command and discards its output.
	Run(ctx context.Context, dir, name string, args ...string) error
	// Output executes the command and returns its stdout.
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// CombinedOutput executes the command and returns stdout and stderr interleaved.
	CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// LookPath reports the absolute path of an executable, or an error if it is
// not on PATH. Indirected for tests.
var LookPath = osexec.LookPath

// OSExecutor is the real Executor backed by os/exec.
type OSExecutor struct{}

// NewOSExecutor creates an Executor that runs real commands.
func NewOSExecutor() *OSExecutor {
	return &OSExecutor{}
}

func (e *OSExecutor) command(ctx context.Context, dir, name string, args ...string) *osexec.Cmd {
	cmd := osexec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd
}

func (e *OSExecutor) Run(ctx context.Context, dir, name string, args ...string) error {
	log := logger.WithComponent("exec")
	log.Debug("run", "name", name, "args", strings.Join(args, " "), "dir", dir)
	return e.command(ctx, dir, name, args...).Run()
}

func (e *OSExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	log := logger.WithComponent("exec")
	log.Debug("output", "name", name, "args", strings.Join(args, " "), "dir", dir)
	return e.command(ctx, dir, name, args...).Output()
}

func (e *OSExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	log := logger.WithComponent("exec")
	log.Debug("combined output", "name", name, "args", strings.Join(args, " "), "dir", dir)
	return e.command(ctx, dir, name, args...).CombinedOutput()
}

// Call records one command invocation seen by a MockExecutor.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String renders the call the way it would appear on a shell command line.
func (c Call) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// MockResponse is the canned result for a matched command.
type MockResponse struct {
	Stdout []byte
	Stderr []byte
	Err    error
}

type prefixMatch struct {
	name   string
	prefix []string
	resp   MockResponse
}

// MockExecutor is an Executor that replays canned responses and records
// every call. Matches are checked most-recently-added first so tests can
// layer a specific response over a broad one.
type MockExecutor struct {
	Calls       []Call
	defaultResp MockResponse
	matches     []prefixMatch
}

// NewMockExecutor creates a MockExecutor. If defaultResp is nil, unmatched
// commands succeed with empty output.
func NewMockExecutor(defaultResp *MockResponse) *MockExecutor {
	m := &MockExecutor{}
	if defaultResp != nil {
		m.defaultResp = *defaultResp
	}
	return m
}

// AddPrefixMatch registers a response for any command whose name matches and
// whose arguments start with the given prefix.
func (m *MockExecutor) AddPrefixMatch(name string, prefix []string, resp MockResponse) {
	m.matches = append(m.matches, prefixMatch{name: name, prefix: prefix, resp: resp})
}

func (m *MockExecutor) respond(dir, name string, args ...string) MockResponse {
	m.Calls = append(m.Calls, Call{Dir: dir, Name: name, Args: args})
	for i := len(m.matches) - 1; i >= 0; i-- {
		pm := m.matches[i]
		if pm.name != name {
			continue
		}
		if len(args) < len(pm.prefix) {
			continue
		}
		matched := true
		for j, p := range pm.prefix {
			if args[j] != p {
				matched = false
				break
			}
		}
		if matched {
			return pm.resp
		}
	}
	return m.defaultResp
}

func (m *MockExecutor) Run(ctx context.Context, dir, name string, args ...string) error {
	return m.respond(dir, name, args...).Err
}

func (m *MockExecutor) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	resp := m.respond(dir, name, args...)
	return resp.Stdout, resp.Err
}

func (m *MockExecutor) CombinedOutput(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	resp := m.respond(dir, name, args...)
	var buf bytes.Buffer
	buf.Write(resp.Stdout)
	buf.Write(resp.Stderr)
	return buf.Bytes(), resp.Err
}

// CallsMatching returns the recorded calls whose rendered command line
// contains the given substring.
func (m *MockExecutor) CallsMatching(substr string) []Call {
	var out []Call
	for _, c := range m.Calls {
		if strings.Contains(c.String(), substr) {
			out = append(out, c)
		}
	}
	return out
}
