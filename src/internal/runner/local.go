package runner

import (
	"context"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/gh-nvat/semver-gate/src/pkg/policy"
	"github.com/gh-nvat/semver-gate/src/pkg/template"
)

// RunnerLocal writes the report and JSON export only: no env flag, no PR comment
type RunnerLocal struct {
	RunnerBase
}

// make RunnerLocal implement RunnerInterface
var _ RunnerInterface = (*RunnerLocal)(nil)

func NewRunnerLocal(
	ctx context.Context,
	options *Options,
	runner command.Runner,
	loader *config.Loader,
	evaluator policy.NoteEvaluator,
	renderer *template.Renderer,
) (*RunnerLocal, error) {
	baseRunner, err := NewRunnerBase(ctx, options, runner, loader, evaluator, renderer)
	if err != nil {
		return nil, err
	}
	r := &RunnerLocal{
		RunnerBase: *baseRunner,
	}
	r.Instance = r
	return r, nil
}

func (r *RunnerLocal) Output(data *models.ReportData, report string) error {
	if err := r.RunnerBase.Output(data, report); err != nil {
		return err
	}
	logger.WithField("breaking", data.Verdict.Breaking).Info("Local mode: skipping env flag and PR comment")
	return nil
}
