package runner

import (
	"context"
	"fmt"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/github"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/gh-nvat/semver-gate/src/pkg/notify"
	"github.com/gh-nvat/semver-gate/src/pkg/policy"
	"github.com/gh-nvat/semver-gate/src/pkg/template"
)

// ClientFactory creates the GitHub API client from a token
type ClientFactory func(token string) (github.GitHubClient, error)

// RunnerGitHub additionally exports the env flag and posts the report on the PR
type RunnerGitHub struct {
	RunnerBase

	newClient ClientFactory
}

// make RunnerGitHub implement RunnerInterface
var _ RunnerInterface = (*RunnerGitHub)(nil)

func NewRunnerGitHub(
	ctx context.Context,
	options *Options,
	runner command.Runner,
	loader *config.Loader,
	evaluator policy.NoteEvaluator,
	renderer *template.Renderer,
	newClient ClientFactory,
) (*RunnerGitHub, error) {
	if newClient == nil {
		return nil, fmt.Errorf("GitHub client factory is required")
	}
	baseRunner, err := NewRunnerBase(ctx, options, runner, loader, evaluator, renderer)
	if err != nil {
		return nil, err
	}
	r := &RunnerGitHub{
		RunnerBase: *baseRunner,
		newClient:  newClient,
	}
	r.Instance = r
	return r, nil
}

func (r *RunnerGitHub) Initialize() error {
	r.resolvePRNumber()
	if r.Options.BaseRef == "" {
		if err := r.fetchPullRequestInfo(); err != nil {
			logger.WithError(err).Warn("Could not fetch pull request info")
		}
	}
	return r.RunnerBase.Initialize()
}

// resolvePRNumber fills in the PR number from GITHUB_REF or the event payload
func (r *RunnerGitHub) resolvePRNumber() {
	n, err := github.ResolvePRNumber(r.Options.GhPrNumber, r.Options.GhRef, r.Options.GhEventPath)
	if err != nil {
		logger.WithError(err).Debug("No pull request number")
		return
	}
	r.Options.GhPrNumber = n
}

// fetchPullRequestInfo takes the base branch from the PR when no base ref was given
func (r *RunnerGitHub) fetchPullRequestInfo() error {
	if r.Options.GhToken == "" || r.Options.GhRepo == "" || r.Options.GhPrNumber <= 0 {
		return fmt.Errorf("GITHUB_TOKEN, GITHUB_REPOSITORY and a PR number are needed to look up the base branch")
	}
	client, err := r.newClient(r.Options.GhToken)
	if err != nil {
		return err
	}
	pr, err := client.GetPR(r.Context, r.Options.GhRepo, r.Options.GhPrNumber)
	if err != nil {
		return err
	}
	r.Options.BaseRef = pr.BaseRef
	logger.WithField("pr", pr.Number).WithField("base", pr.BaseRef).Info("Using base branch of pull request")
	return nil
}

func (r *RunnerGitHub) Output(data *models.ReportData, report string) error {
	if err := r.RunnerBase.Output(data, report); err != nil {
		return err
	}

	notifier := notify.NewNotifier(notify.Settings{
		EnvFile:    r.Options.GhEnvFile,
		Token:      r.Options.GhToken,
		Repository: r.Options.GhRepo,
		PRNumber:   r.Options.GhPrNumber,
		ReportPath: r.ReportFile(),
	}, r.newPoster)

	res, err := notifier.Notify(r.Context, data.Verdict.Breaking, report)
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", notify.ENV_FLAG, err)
	}
	logger.WithField("flagWritten", res.FlagWritten).WithField("commented", res.Commented).Info("Notified")
	return nil
}

func (r *RunnerGitHub) newPoster(token, repository string) (github.CommentPoster, error) {
	switch r.Options.CommentVia {
	case github.COMMENT_VIA_API:
		client, err := r.newClient(token)
		if err != nil {
			return nil, err
		}
		return github.NewAPIPoster(client, repository), nil
	case github.COMMENT_VIA_GH, "":
		return github.NewCLIPoster(r.Runner, r.Options.WorkDir), nil
	default:
		return nil, fmt.Errorf("unsupported comment method %q", r.Options.CommentVia)
	}
}
