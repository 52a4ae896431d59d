package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/git"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/gh-nvat/semver-gate/src/pkg/trace"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var logger = log.WithField("package", "checks")

// maxEvidence caps the evidence lines kept per check
const maxEvidence = 20

// Input is what every check compares
type Input struct {
	Base string
	Head string
}

// Check defines one breaking-change signal
type Check interface {
	// Name returns the stable check name used in the verdict
	Name() string
	// Run evaluates the check. Failures are reported through the outcome status.
	Run(ctx context.Context, in Input) models.CheckOutcome
}

// FromConfig builds the semver checker followed by the configured file checks
func FromConfig(cfg *config.GateConfig, runner command.Runner, repo git.Repository, dir string, skipInstall bool) ([]Check, error) {
	semverCfg := cfg.SemverChecks
	semverCfg.SkipInstall = semverCfg.SkipInstall || skipInstall

	out := []Check{NewSemverChecker(runner, dir, cfg.Manifest, semverCfg)}
	for _, fc := range cfg.Checks {
		check, err := NewFileCheck(fc, repo, runner, dir)
		if err != nil {
			return nil, fmt.Errorf("failed to build check %s: %w", fc.Name, err)
		}
		out = append(out, check)
	}
	return out, nil
}

// RunAll runs the checks one after another, each inside its own span.
// A cancelled context stops the run: outcomes of interrupted commands are not a verdict.
func RunAll(ctx context.Context, checks []Check, in Input) ([]models.CheckOutcome, error) {
	outcomes := make([]models.CheckOutcome, 0, len(checks))
	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run interrupted before check %s: %w", c.Name(), err)
		}
		spanCtx, span := trace.StartSpan(ctx, "check."+c.Name())
		start := time.Now()

		outcome := c.Run(spanCtx, in)
		if outcome.Name == "" {
			outcome.Name = c.Name()
		}
		outcome.Duration = time.Since(start)

		span.SetAttributes(
			attribute.String("check.status", string(outcome.Status)),
			attribute.String("check.detector", outcome.Detector),
		)
		span.End()

		entry := logger.WithField("check", outcome.Name).WithField("status", outcome.Status).WithField("duration", outcome.Duration)
		if outcome.Errored() {
			entry.WithField("error", outcome.Error).Warn("Check failed to run")
		} else {
			entry.Info("Check finished")
		}
		outcomes = append(outcomes, outcome)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("run interrupted: %w", err)
	}
	return outcomes, nil
}

func errorOutcome(name, title, detector string, err error) models.CheckOutcome {
	return models.CheckOutcome{
		Name:     name,
		Title:    title,
		Status:   models.CheckStatusError,
		Detector: detector,
		Error:    err.Error(),
	}
}

func capEvidence(lines []string) []string {
	if len(lines) <= maxEvidence {
		return lines
	}
	out := append([]string{}, lines[:maxEvidence]...)
	return append(out, fmt.Sprintf("... and %d more", len(lines)-maxEvidence))
}
