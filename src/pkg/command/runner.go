package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "command")

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Combined returns stdout followed by stderr.
func (r *Result) Combined() string {
	if r == nil {
		return ""
	}
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// Runner defines the interface for running external programs
type Runner interface {
	// Run executes name with args in dir and waits for it to finish.
	// A non-zero exit status is reported through Result.ExitCode, not as an error.
	Run(ctx context.Context, dir, name string, args ...string) (*Result, error)
	// LookPath reports where name would be found on PATH
	LookPath(name string) (string, error)
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

// Ensure ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)

// NewExecRunner creates a new runner backed by os/exec
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the program and captures stdout and stderr separately
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	logger.WithField("cmd", CommandLine(name, args...)).WithField("dir", dir).Debug("Running command")

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		if ctx.Err() != nil {
			return res, fmt.Errorf("%s interrupted: %w", name, ctx.Err())
		}
		return res, fmt.Errorf("failed to run %s: %w", name, err)
	}

	return res, nil
}

// LookPath searches PATH for name
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// CommandLine joins a program and its arguments for logging and matching
func CommandLine(name string, args ...string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}
