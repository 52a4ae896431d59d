package notify

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/gh-nvat/semver-gate/src/pkg/github"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "notify")

// ENV_FLAG is the variable exported to later workflow steps
const ENV_FLAG = "BREAKING_CHANGES_DETECTED"

// PosterFactory builds a comment poster once credentials are known to exist
type PosterFactory func(token, repository string) (github.CommentPoster, error)

// Settings is what the notifier reads from the CI environment
type Settings struct {
	EnvFile    string // GITHUB_ENV
	Token      string // GITHUB_TOKEN
	Repository string // GITHUB_REPOSITORY
	PRNumber   int
	ReportPath string
}

// Result records what the notifier did
type Result struct {
	FlagWritten bool
	Commented   bool
}

// Notifier exports the verdict flag and posts the report
type Notifier struct {
	settings  Settings
	newPoster PosterFactory
}

// NewNotifier creates a notifier
func NewNotifier(settings Settings, newPoster PosterFactory) *Notifier {
	return &Notifier{settings: settings, newPoster: newPoster}
}

// Notify writes the env flag and, for breaking verdicts with credentials
// present, posts the report. Posting problems are logged and never returned.
func (n *Notifier) Notify(ctx context.Context, breaking bool, report string) (Result, error) {
	var res Result

	if n.settings.EnvFile == "" {
		logger.Warn("GITHUB_ENV is not set, not exporting " + ENV_FLAG)
	} else {
		if err := AppendEnvFile(n.settings.EnvFile, ENV_FLAG, strconv.FormatBool(breaking)); err != nil {
			return res, err
		}
		res.FlagWritten = true
	}

	if !breaking {
		return res, nil
	}
	if n.settings.Token == "" || n.settings.Repository == "" {
		logger.Info("GITHUB_TOKEN or GITHUB_REPOSITORY not set, skipping PR comment")
		return res, nil
	}
	if n.settings.PRNumber <= 0 {
		logger.Warn("No pull request number available, skipping PR comment")
		return res, nil
	}

	poster, err := n.newPoster(n.settings.Token, n.settings.Repository)
	if err != nil {
		logger.WithError(err).Warn("Failed to set up comment poster")
		return res, nil
	}
	if err := poster.PostReport(ctx, n.settings.PRNumber, report, n.settings.ReportPath); err != nil {
		logger.WithError(err).WithField("pr", n.settings.PRNumber).Warn("Failed to post report comment")
		return res, nil
	}
	res.Commented = true
	return res, nil
}

// AppendEnvFile appends KEY=value to a GITHUB_ENV style file
func AppendEnvFile(path, key, value string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open env file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", key, value); err != nil {
		return fmt.Errorf("failed to write env file: %w", err)
	}
	logger.WithField("file", path).WithField(key, value).Debug("Exported env flag")
	return nil
}
