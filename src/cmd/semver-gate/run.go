package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gh-nvat/semver-gate/src/internal/runner"
	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/github"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/gh-nvat/semver-gate/src/pkg/policy"
	"github.com/gh-nvat/semver-gate/src/pkg/template"
	"github.com/gh-nvat/semver-gate/src/pkg/trace"
)

// Do all initialization steps here:
// 1. Create the command runner, config loader, policy evaluator and renderer
// 2. Create the runner instance for the selected mode
// 3. Initialize it: load the checks file, resolve refs, build the checks
func initialize(ctx context.Context, opts *runner.Options) (*runner.Runner, error) {
	execRunner := command.NewExecRunner()
	loader := config.NewLoader()
	evaluator := policy.NewEvaluator()
	renderer := template.NewRenderer()

	var runnerInstance runner.RunnerInterface
	var err error
	switch opts.RunMode {
	case runner.RUN_MODE_GITHUB:
		runnerInstance, err = runner.NewRunnerGitHub(ctx, opts, execRunner, loader, evaluator, renderer, newGitHubClient)
	case runner.RUN_MODE_LOCAL:
		runnerInstance, err = runner.NewRunnerLocal(ctx, opts, execRunner, loader, evaluator, renderer)
	default:
		return nil, fmt.Errorf("invalid run mode: %s", opts.RunMode)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s runner: %w", opts.RunMode, err)
	}

	fmt.Println("📋 Loading checks configuration...")
	if err := runnerInstance.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize runner: %w", err)
	}

	return &runner.Runner{
		RunMode:  opts.RunMode,
		Instance: runnerInstance,
	}, nil
}

func newGitHubClient(token string) (github.GitHubClient, error) {
	client, err := github.NewClient(token)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// run executes the gate and returns the verdict exit code
func run(ctx context.Context, opts *runner.Options, enableTracing bool) (int, error) {
	if err := validateOptions(opts); err != nil {
		return 1, fmt.Errorf("invalid options: %w", err)
	}

	shutdown, err := trace.InitTracer("semver-gate", enableTracing, opts.OutputDir)
	if err != nil {
		return 1, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer shutdown()

	r, err := initialize(ctx, opts)
	if err != nil {
		return 1, err
	}

	fmt.Println("🔍 Running breaking change checks...")
	data, err := r.Instance.Process()
	if err != nil {
		return 1, fmt.Errorf("failed to process: %w", err)
	}

	printSummary(data)
	return data.Verdict.ExitCode(), nil
}

func printSummary(data *models.ReportData) {
	for _, o := range data.Verdict.Outcomes {
		switch o.Status {
		case models.CheckStatusChanged:
			fmt.Printf("   ❌ %s: breaking change\n", o.Title)
		case models.CheckStatusError:
			fmt.Printf("   💥 %s: %s\n", o.Title, o.Error)
		case models.CheckStatusSkipped:
			fmt.Printf("   ⏭️  %s: skipped\n", o.Title)
		default:
			fmt.Printf("   ✅ %s\n", o.Title)
		}
	}
	if data.Version != nil {
		fmt.Printf("📦 Version %s → suggested %s (%s)\n", data.Version.Current, data.Version.Suggested, data.Version.Bump)
	}

	switch {
	case data.Verdict.Breaking:
		color.New(color.FgRed, color.Bold).Fprintf(os.Stdout, "🚨 Breaking changes detected by %d check(s)\n", len(data.Verdict.ChangedChecks()))
	case data.Verdict.Inconclusive:
		color.New(color.FgYellow, color.Bold).Fprintf(os.Stdout, "⚠️  Inconclusive: %d check(s) could not run\n", len(data.Verdict.ErroredChecks()))
	default:
		color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, "✅ No breaking changes detected")
	}
}

func validateOptions(opts *runner.Options) error {
	if opts.RunMode != runner.RUN_MODE_GITHUB && opts.RunMode != runner.RUN_MODE_LOCAL {
		return fmt.Errorf("run-mode must be '%s' or '%s', got: %s", runner.RUN_MODE_GITHUB, runner.RUN_MODE_LOCAL, opts.RunMode)
	}
	if opts.CommentVia != github.COMMENT_VIA_GH && opts.CommentVia != github.COMMENT_VIA_API {
		return fmt.Errorf("comment-via must be '%s' or '%s', got: %s", github.COMMENT_VIA_GH, github.COMMENT_VIA_API, opts.CommentVia)
	}
	if opts.GhPrNumber < 0 {
		return fmt.Errorf("pr-number must not be negative")
	}
	return nil
}
