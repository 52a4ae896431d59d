package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "git")

const DEFAULT_HEAD_REF = "HEAD"

// Repository defines the git operations the gate needs
type Repository interface {
	// Diff returns `git diff base..head -- path`
	Diff(ctx context.Context, base, head, path string) (string, error)
	// ChangedFiles returns `git diff --name-only base..head`
	ChangedFiles(ctx context.Context, base, head string) ([]string, error)
	// Show returns the content of path at ref; found is false when path does not exist at ref
	Show(ctx context.Context, ref, path string) (content []byte, found bool, err error)
	// RevParse resolves ref to a commit SHA
	RevParse(ctx context.Context, ref string) (string, error)
}

// Client runs git through a command.Runner
type Client struct {
	runner command.Runner
	dir    string
}

// Ensure Client implements Repository
var _ Repository = (*Client)(nil)

// NewClient creates a git client working in dir ("" for the current directory)
func NewClient(runner command.Runner, dir string) *Client {
	return &Client{runner: runner, dir: dir}
}

// Diff returns the unified diff between two refs restricted to path
func (c *Client) Diff(ctx context.Context, base, head, path string) (string, error) {
	if head == "" {
		head = DEFAULT_HEAD_REF
	}
	rangeSpec := fmt.Sprintf("%s..%s", base, head)
	res, err := c.git(ctx, "diff", rangeSpec, "--", path)
	if err != nil {
		return "", err
	}
	logger.WithField("range", rangeSpec).WithField("path", path).WithField("bytes", len(res.Stdout)).Debug("Diffed path")
	return res.Stdout, nil
}

// ChangedFiles lists the files touched between two refs
func (c *Client) ChangedFiles(ctx context.Context, base, head string) ([]string, error) {
	if head == "" {
		head = DEFAULT_HEAD_REF
	}
	res, err := c.git(ctx, "diff", "--name-only", fmt.Sprintf("%s..%s", base, head))
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Show reads a file at a given ref
func (c *Client) Show(ctx context.Context, ref, path string) ([]byte, bool, error) {
	res, err := c.runner.Run(ctx, c.dir, "git", "show", fmt.Sprintf("%s:%s", ref, path))
	if err != nil {
		return nil, false, err
	}
	if res.ExitCode != 0 {
		if isMissingPath(res.Stderr) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("git show %s:%s failed (exit %d): %s", ref, path, res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return []byte(res.Stdout), true, nil
}

// RevParse resolves a ref to its commit SHA
func (c *Client) RevParse(ctx context.Context, ref string) (string, error) {
	res, err := c.git(ctx, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ResolveBase prefers the remote-tracking branch for a bare branch name,
// since CI checkouts usually only have origin/<base>.
func ResolveBase(ctx context.Context, repo Repository, base string) string {
	if base == "" || strings.Contains(base, "/") || base == DEFAULT_HEAD_REF {
		return base
	}
	remote := "origin/" + base
	if _, err := repo.RevParse(ctx, remote); err == nil {
		return remote
	}
	return base
}

func (c *Client) git(ctx context.Context, args ...string) (*command.Result, error) {
	res, err := c.runner.Run(ctx, c.dir, "git", args...)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git %s failed (exit %d): %s", strings.Join(args, " "), res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return res, nil
}

func isMissingPath(stderr string) bool {
	return strings.Contains(stderr, "does not exist in") ||
		strings.Contains(stderr, "exists on disk, but not in")
}
