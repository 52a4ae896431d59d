package checks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
)

const DETECTOR_SEMVER = "semver"

// ErrToolMissing is returned when cargo-semver-checks is absent and installing it is not allowed
var ErrToolMissing = errors.New("cargo-semver-checks is not installed")

// semverFinding matches the lines cargo-semver-checks prints for failed lints
var semverFinding = regexp.MustCompile(`(?m)^[ \t]*(--- failure\b.*|FAIL\b.*|.*requires new major version.*)$`)

// semverChecksFile is the TOML document holding the package exclusions
type semverChecksFile struct {
	Exclude []string `toml:"exclude"`
}

// SemverChecker runs cargo-semver-checks against the base revision
type SemverChecker struct {
	runner   command.Runner
	dir      string
	manifest string
	cfg      config.SemverChecksConfig
}

// Ensure SemverChecker implements Check
var _ Check = (*SemverChecker)(nil)

// NewSemverChecker creates the public API check
func NewSemverChecker(runner command.Runner, dir, manifest string, cfg config.SemverChecksConfig) *SemverChecker {
	return &SemverChecker{
		runner:   runner,
		dir:      dir,
		manifest: manifest,
		cfg:      cfg,
	}
}

// Name returns the check name
func (s *SemverChecker) Name() string {
	return models.CHECK_PUBLIC_API
}

// Run installs the tool if needed, runs it and classifies the result
func (s *SemverChecker) Run(ctx context.Context, in Input) models.CheckOutcome {
	const title = "Public API (cargo-semver-checks)"

	if s.cfg.Disabled {
		return models.CheckOutcome{Name: s.Name(), Title: title, Status: models.CheckStatusSkipped, Detector: DETECTOR_SEMVER}
	}

	if err := s.EnsureInstalled(ctx); err != nil {
		return errorOutcome(s.Name(), title, DETECTOR_SEMVER, err)
	}

	excludes, err := s.Exclusions()
	if err != nil {
		return errorOutcome(s.Name(), title, DETECTOR_SEMVER, err)
	}

	res, err := s.runner.Run(ctx, s.dir, "cargo", s.Args(in.Base, excludes)...)
	if err != nil {
		return errorOutcome(s.Name(), title, DETECTOR_SEMVER, err)
	}

	status, evidence := ClassifySemverResult(res)
	outcome := models.CheckOutcome{
		Name:     s.Name(),
		Title:    title,
		Status:   status,
		Detector: DETECTOR_SEMVER,
		Path:     s.manifest,
		Evidence: capEvidence(evidence),
	}
	if status == models.CheckStatusError {
		outcome.Evidence = nil
		outcome.Error = fmt.Sprintf("cargo semver-checks exited with %d: %s", res.ExitCode, lastLines(res.Stderr, 5))
	}
	return outcome
}

// EnsureInstalled checks for the cargo subcommand and installs it when allowed
func (s *SemverChecker) EnsureInstalled(ctx context.Context) error {
	res, err := s.runner.Run(ctx, s.dir, "cargo", "semver-checks", "--version")
	if err != nil {
		return fmt.Errorf("failed to check for cargo-semver-checks: %w", err)
	}
	if res.ExitCode == 0 {
		return nil
	}
	if s.cfg.SkipInstall {
		return ErrToolMissing
	}

	logger.Info("Installing cargo-semver-checks")
	res, err = s.runner.Run(ctx, s.dir, "cargo", "install", "cargo-semver-checks", "--locked")
	if err != nil {
		return fmt.Errorf("failed to install cargo-semver-checks: %w", err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("failed to install cargo-semver-checks (exit %d): %s", res.ExitCode, lastLines(res.Stderr, 5))
	}
	return nil
}

// Exclusions merges the inline exclusions with the ones in the semver-checks
// config file. A missing file contributes nothing.
func (s *SemverChecker) Exclusions() ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(pkgs []string) {
		for _, p := range pkgs {
			if p = strings.TrimSpace(p); p != "" && !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	add(s.cfg.Exclude)

	if s.cfg.ConfigPath == "" {
		return out, nil
	}
	path := s.cfg.ConfigPath
	if s.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file semverChecksFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	add(file.Exclude)
	return out, nil
}

// Args builds the cargo arguments for a check-release run
func (s *SemverChecker) Args(base string, excludes []string) []string {
	args := []string{"semver-checks", "check-release", "--manifest-path", s.manifest, "--baseline-rev", base}
	if len(excludes) > 0 {
		args = append(args, "--workspace")
		for _, pkg := range excludes {
			args = append(args, "--exclude", pkg)
		}
	}
	return append(args, s.cfg.ExtraArgs...)
}

// ClassifySemverResult maps a cargo-semver-checks run to a status.
// Exit 0 passes. A non-zero exit is a breaking change only when the output
// carries semver findings; otherwise the tool itself failed.
func ClassifySemverResult(res *command.Result) (models.CheckStatus, []string) {
	if res.ExitCode == 0 {
		return models.CheckStatusPass, nil
	}

	output := res.Combined()
	findings := semverFinding.FindAllString(output, -1)
	if len(findings) == 0 {
		return models.CheckStatusError, nil
	}

	evidence := make([]string, 0, len(findings))
	for _, f := range findings {
		evidence = append(evidence, strings.TrimSpace(f))
	}
	return models.CheckStatusChanged, evidence
}
