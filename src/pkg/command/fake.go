package command

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Fake is a scripted Runner for tests. Responses are keyed by the full
// command line ("git diff a..b -- path"); a key ending in "*" matches by prefix.
type Fake struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	binaries  map[string]bool
	calls     []string
	dirs      []string
}

type fakeResponse struct {
	result *Result
	err    error
}

// Ensure Fake implements Runner
var _ Runner = (*Fake)(nil)

// NewFake creates an empty fake runner
func NewFake() *Fake {
	return &Fake{
		responses: make(map[string]fakeResponse),
		binaries:  make(map[string]bool),
	}
}

// On registers the response for a command line
func (f *Fake) On(cmdline string, res *Result, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if res == nil {
		res = &Result{}
	}
	f.responses[cmdline] = fakeResponse{result: res, err: err}
	return f
}

// OnStdout registers a successful command printing stdout
func (f *Fake) OnStdout(cmdline, stdout string) *Fake {
	return f.On(cmdline, &Result{Stdout: stdout}, nil)
}

// Provide marks binaries as present on PATH
func (f *Fake) Provide(names ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range names {
		f.binaries[n] = true
	}
	return f
}

// Run returns the registered response or an error for unknown commands
func (f *Fake) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	line := CommandLine(name, args...)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, line)
	f.dirs = append(f.dirs, dir)

	if resp, ok := f.responses[line]; ok {
		return resp.result, resp.err
	}
	for key, resp := range f.responses {
		if strings.HasSuffix(key, "*") && strings.HasPrefix(line, strings.TrimSuffix(key, "*")) {
			return resp.result, resp.err
		}
	}
	return nil, fmt.Errorf("unexpected command: %s", line)
}

// LookPath succeeds only for binaries registered with Provide
func (f *Fake) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.binaries[name] {
		return "/usr/bin/" + name, nil
	}
	return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
}

// Calls returns the command lines run so far
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// DirOf returns the working directory of the first call starting with prefix
func (f *Fake) DirOf(prefix string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			return f.dirs[i], true
		}
	}
	return "", false
}

// Called reports whether any recorded call starts with prefix
func (f *Fake) Called(prefix string) bool {
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
