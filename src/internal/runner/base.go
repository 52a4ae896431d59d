package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gh-nvat/semver-gate/src/pkg/checks"
	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/git"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/gh-nvat/semver-gate/src/pkg/policy"
	"github.com/gh-nvat/semver-gate/src/pkg/template"
	"github.com/gh-nvat/semver-gate/src/pkg/trace"
	"github.com/gh-nvat/semver-gate/src/pkg/version"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "runner")

type RunnerBase struct {
	Context context.Context
	Options *Options

	RunMode string

	Runner    command.Runner
	Repo      git.Repository
	Loader    *config.Loader
	Evaluator policy.NoteEvaluator
	Renderer  *template.Renderer

	Config *config.GateConfig
	Checks []checks.Check

	// resolved refs and commits
	Base       string
	Head       string
	BaseCommit string
	HeadCommit string

	// Instance receives Output calls so the mode-specific runners can extend it
	Instance RunnerInterface
}

// make RunnerBase implement RunnerInterface
var _ RunnerInterface = (*RunnerBase)(nil)

func NewRunnerBase(
	ctx context.Context,
	options *Options,
	runner command.Runner,
	loader *config.Loader,
	evaluator policy.NoteEvaluator,
	renderer *template.Renderer,
) (*RunnerBase, error) {
	if runner == nil || loader == nil || evaluator == nil || renderer == nil {
		return nil, fmt.Errorf("command runner, loader, evaluator and renderer are required")
	}
	r := &RunnerBase{
		Context:   ctx,
		Options:   options,
		RunMode:   options.RunMode,
		Runner:    runner,
		Repo:      git.NewClient(runner, options.WorkDir),
		Loader:    loader,
		Evaluator: evaluator,
		Renderer:  renderer,
	}
	r.Instance = r
	return r, nil
}

func (r *RunnerBase) Initialize() error {
	logger.Info("Initialize: starting...")

	cfg, err := r.Loader.LoadAndValidate(r.path(r.Options.ConfigPath))
	if err != nil {
		return fmt.Errorf("failed to load gate config: %w", err)
	}
	if err := r.Evaluator.Validate(cfg.Policies, r.Options.WorkDir); err != nil {
		return fmt.Errorf("failed to validate policies: %w", err)
	}
	r.Config = cfg

	if err := r.resolveRefs(); err != nil {
		return err
	}

	r.Checks, err = checks.FromConfig(cfg, r.Runner, r.Repo, r.Options.WorkDir, r.Options.SkipInstall)
	if err != nil {
		return err
	}

	logger.WithField("base", r.Base).WithField("head", r.Head).WithField("checks", len(r.Checks)).Info("Initialize: done.")
	return nil
}

// resolveRefs verifies both refs up front; a bad ref is fatal for the run
func (r *RunnerBase) resolveRefs() error {
	if r.Options.BaseRef == "" {
		return fmt.Errorf("base ref is required (set --base or GITHUB_BASE_REF)")
	}

	r.Base = git.ResolveBase(r.Context, r.Repo, r.Options.BaseRef)
	r.Head = r.Options.HeadRef
	if r.Head == "" {
		r.Head = git.DEFAULT_HEAD_REF
	}

	var err error
	if r.BaseCommit, err = r.Repo.RevParse(r.Context, r.Base); err != nil {
		return fmt.Errorf("invalid base ref %s: %w", r.Base, err)
	}
	if r.HeadCommit, err = r.Repo.RevParse(r.Context, r.Head); err != nil {
		return fmt.Errorf("invalid head ref %s: %w", r.Head, err)
	}
	return nil
}

func (r *RunnerBase) Process() (*models.ReportData, error) {
	logger.Info("Process: starting...")
	ctx, span := trace.StartSpan(r.Context, "process")
	defer span.End()

	files, err := r.Repo.ChangedFiles(ctx, r.Base, r.Head)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files: %w", err)
	}
	logger.WithField("files", len(files)).Debug("Listed changed files")

	outcomes, err := checks.RunAll(ctx, r.Checks, checks.Input{Base: r.Base, Head: r.Head})
	if err != nil {
		return nil, err
	}
	verdict := checks.Aggregate(outcomes)

	data := &models.ReportData{
		Timestamp:    time.Now().UTC(),
		Repository:   r.Options.GhRepo,
		PRNumber:     r.Options.GhPrNumber,
		BaseRef:      r.Base,
		HeadRef:      r.Head,
		BaseCommit:   r.BaseCommit,
		HeadCommit:   r.HeadCommit,
		Verdict:      verdict,
		ChangedAreas: MatchAreas(files, r.Config.Report.Areas),
		ChangedFiles: files,
		Version:      r.suggestVersion(verdict.Breaking),
	}
	data.PolicyNotes = r.Evaluator.Evaluate(ctx, r.Config.Policies, r.Options.WorkDir, data)

	report, err := r.Renderer.RenderReport(r.templatesDir(), models.ReportTemplateData{
		ReportData:   *data,
		Marker:       template.ToolCommentSignature,
		DiffMaxLines: r.Config.Report.DiffMaxLines,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	if err := r.Instance.Output(data, report); err != nil {
		return nil, err
	}

	logger.WithField("breaking", verdict.Breaking).WithField("inconclusive", verdict.Inconclusive).Info("Process: done.")
	return data, nil
}

func (r *RunnerBase) Output(data *models.ReportData, report string) error {
	logger.Info("Output: starting...")
	if err := r.outputReportFile(data, report); err != nil {
		return err
	}
	if err := r.outputReportJson(data); err != nil {
		return err
	}
	logger.Info("Output: done.")
	return nil
}

// ReportFile returns where the markdown report is written
func (r *RunnerBase) ReportFile() string {
	p := r.Options.ReportPath
	if p == "" {
		p = DEFAULT_REPORT_PATH
	}
	p = r.path(p)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// The markdown report is only written for breaking verdicts
func (r *RunnerBase) outputReportFile(data *models.ReportData, report string) error {
	if !data.Verdict.Breaking {
		logger.Info("OutputReport: no breaking changes, skipping report file")
		return nil
	}

	filePath := r.ReportFile()
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(report), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	logger.WithField("filePath", filePath).Info("Written report to file")
	return nil
}

// Exporting report json file to output directory if enabled
func (r *RunnerBase) outputReportJson(data *models.ReportData) error {
	if !r.Options.EnableExportReport {
		logger.Debug("OutputJson: option was disabled")
		return nil
	}
	logger.Info("OutputJson: starting...")

	resultsJson, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(r.Options.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filePath := filepath.Join(r.Options.OutputDir, "report.json")
	if err := os.WriteFile(filePath, resultsJson, 0644); err != nil {
		logger.WithField("filePath", filePath).WithField("error", err).Error("Failed to write report data to file")
		return err
	}
	logger.WithField("filePath", filePath).Info("Written report data to file")
	return nil
}

func (r *RunnerBase) suggestVersion(breaking bool) *models.VersionSuggestion {
	if r.Config.Manifest == "" {
		return nil
	}
	current, err := version.ReadManifestVersion(r.path(r.Config.Manifest))
	if err != nil {
		entry := logger.WithField("manifest", r.Config.Manifest)
		if errors.Is(err, version.ErrNoVersion) {
			entry.Debug("Manifest has no version, skipping suggestion")
		} else {
			entry.WithError(err).Warn("Could not read manifest version")
		}
		return nil
	}

	next, bump, err := version.Suggest(current, breaking)
	if err != nil {
		logger.WithError(err).Warn("Could not suggest next version")
		return nil
	}
	return &models.VersionSuggestion{Current: current, Suggested: next, Bump: bump}
}

func (r *RunnerBase) templatesDir() string {
	if r.Options.TemplatesPath == "" {
		return ""
	}
	return r.path(r.Options.TemplatesPath)
}

func (r *RunnerBase) path(p string) string {
	if r.Options.WorkDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(r.Options.WorkDir, p)
}

// MatchAreas returns each configured area whose match occurs in any changed file name
func MatchAreas(files []string, areas []config.AreaConfig) []models.ChangedArea {
	var out []models.ChangedArea
	for _, area := range areas {
		for _, f := range files {
			if strings.Contains(f, area.Match) {
				out = append(out, models.ChangedArea{Match: area.Match, Message: area.Message})
				break
			}
		}
	}
	return out
}
