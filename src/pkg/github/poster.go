package github

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
)

const (
	COMMENT_VIA_GH  = "gh"
	COMMENT_VIA_API = "api"
)

// CommentPoster publishes the report on a pull request
type CommentPoster interface {
	// PostReport posts body on the pull request. bodyFile, when set, holds the same content.
	PostReport(ctx context.Context, prNumber int, body, bodyFile string) error
}

// APIPoster posts through the REST API and keeps a single report comment per PR
type APIPoster struct {
	client GitHubClient
	repo   string
}

// Ensure APIPoster implements CommentPoster
var _ CommentPoster = (*APIPoster)(nil)

// NewAPIPoster creates a poster for owner/repo
func NewAPIPoster(client GitHubClient, repo string) *APIPoster {
	return &APIPoster{client: client, repo: repo}
}

// PostReport updates the previous report comment or creates a new one
func (p *APIPoster) PostReport(ctx context.Context, prNumber int, body, _ string) error {
	existing, err := p.client.FindToolComment(ctx, p.repo, prNumber)
	if err != nil {
		return fmt.Errorf("failed to look up existing comment: %w", err)
	}

	if existing != nil {
		logger.WithField("commentID", existing.ID).WithField("pr", prNumber).Info("Updating existing report comment")
		return p.client.UpdateComment(ctx, p.repo, existing.ID, body)
	}

	created, err := p.client.CreateComment(ctx, p.repo, prNumber, body)
	if err != nil {
		return err
	}
	logger.WithField("commentID", created.ID).WithField("pr", prNumber).Info("Created report comment")
	return nil
}

// CLIPoster posts with `gh pr comment`
type CLIPoster struct {
	runner command.Runner
	dir    string
}

// Ensure CLIPoster implements CommentPoster
var _ CommentPoster = (*CLIPoster)(nil)

// NewCLIPoster creates a poster that shells out to the gh CLI
func NewCLIPoster(runner command.Runner, dir string) *CLIPoster {
	return &CLIPoster{runner: runner, dir: dir}
}

// PostReport runs `gh pr comment <n> --body-file <file>`. Without a body
// file the body is written to a temporary one.
func (p *CLIPoster) PostReport(ctx context.Context, prNumber int, body, bodyFile string) error {
	if bodyFile == "" {
		f, err := os.CreateTemp("", "semver-gate-report-*.md")
		if err != nil {
			return fmt.Errorf("failed to create body file: %w", err)
		}
		defer os.Remove(f.Name())
		if _, err := f.WriteString(body); err != nil {
			f.Close()
			return fmt.Errorf("failed to write body file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write body file: %w", err)
		}
		bodyFile = f.Name()
	}

	res, err := p.runner.Run(ctx, p.dir, "gh", "pr", "comment", strconv.Itoa(prNumber), "--body-file", bodyFile)
	if err != nil {
		return fmt.Errorf("failed to run gh: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("gh pr comment failed (exit %d): %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	logger.WithField("pr", prNumber).Info("Posted report comment with gh")
	return nil
}
