package checks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/gh-nvat/semver-gate/src/pkg/command"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/diff"
	"github.com/gh-nvat/semver-gate/src/pkg/git"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
)

const DETECTOR_ANALYZER = "analyzer"

// FileCheck watches one path and reports removed API surface in it
type FileCheck struct {
	cfg     config.FileCheckConfig
	pattern *regexp.Regexp
	repo    git.Repository
	runner  command.Runner
	dir     string
	parser  diff.DiffParser
	symbols *SymbolExtractor
}

// Ensure FileCheck implements Check
var _ Check = (*FileCheck)(nil)

// NewFileCheck creates a check from its configuration. The analyzer runs in dir.
func NewFileCheck(cfg config.FileCheckConfig, repo git.Repository, runner command.Runner, dir string) (*FileCheck, error) {
	if cfg.Detector == "" {
		cfg.Detector = config.DETECTOR_PATTERN
	}
	if cfg.Title == "" {
		cfg.Title = cfg.Name
	}

	fc := &FileCheck{
		cfg:    cfg,
		repo:   repo,
		runner: runner,
		dir:    dir,
		parser: diff.NewDiffer(),
	}

	switch cfg.Detector {
	case config.DETECTOR_PATTERN:
		re, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		fc.pattern = re
	case config.DETECTOR_SYMBOLS:
		fc.symbols = NewSymbolExtractor()
	default:
		return nil, fmt.Errorf("unsupported detector %q", cfg.Detector)
	}

	return fc, nil
}

// Name returns the check name
func (c *FileCheck) Name() string {
	return c.cfg.Name
}

// Run prefers the project's analyzer when it is installed, then falls back to the detector
func (c *FileCheck) Run(ctx context.Context, in Input) models.CheckOutcome {
	if c.cfg.Analyzer != "" {
		if _, err := c.runner.LookPath(c.cfg.Analyzer); err == nil {
			return c.runAnalyzer(ctx, in)
		}
		logger.WithField("check", c.cfg.Name).WithField("analyzer", c.cfg.Analyzer).Debug("Analyzer not on PATH, using detector")
	}

	raw, err := c.repo.Diff(ctx, in.Base, in.Head, c.cfg.Path)
	if err != nil {
		return errorOutcome(c.cfg.Name, c.cfg.Title, c.cfg.Detector, err)
	}
	parsed, err := c.parser.Parse(raw)
	if err != nil {
		return errorOutcome(c.cfg.Name, c.cfg.Title, c.cfg.Detector, err)
	}

	added, deleted, total := diff.CalcLineChanges(parsed)
	outcome := models.CheckOutcome{
		Name:     c.cfg.Name,
		Title:    c.cfg.Title,
		Status:   models.CheckStatusPass,
		Detector: c.cfg.Detector,
		Path:     c.cfg.Path,
		Diff: &models.DiffResult{
			Path:             c.cfg.Path,
			Content:          raw,
			LineCount:        total,
			AddedLineCount:   added,
			DeletedLineCount: deleted,
		},
	}
	if parsed.Empty() {
		return outcome
	}

	var evidence []string
	switch c.cfg.Detector {
	case config.DETECTOR_SYMBOLS:
		evidence, err = c.removedSymbols(ctx, in)
		if err != nil {
			return errorOutcome(c.cfg.Name, c.cfg.Title, c.cfg.Detector, err)
		}
	default:
		for _, f := range parsed.Files {
			if f.Deleted() {
				evidence = append(evidence, fmt.Sprintf("%s: file removed", f.Path()))
			}
		}
		for _, l := range parsed.MatchRemoved(c.pattern) {
			evidence = append(evidence, fmt.Sprintf("%s:%d: %s", l.Path, l.Number, strings.TrimSpace(l.Content)))
		}
	}

	if len(evidence) > 0 {
		outcome.Status = models.CheckStatusChanged
		outcome.Evidence = capEvidence(evidence)
	}
	return outcome
}

func (c *FileCheck) removedSymbols(ctx context.Context, in Input) ([]string, error) {
	head := in.Head
	if head == "" {
		head = git.DEFAULT_HEAD_REF
	}

	baseSrc, found, err := c.repo.Show(ctx, in.Base, c.cfg.Path)
	if err != nil {
		return nil, err
	}
	if !found {
		// file is new in head, nothing can have been removed
		return nil, nil
	}
	headSrc, _, err := c.repo.Show(ctx, head, c.cfg.Path)
	if err != nil {
		return nil, err
	}

	removed, err := c.symbols.RemovedSymbols(ctx, baseSrc, headSrc)
	if err != nil {
		return nil, err
	}

	var evidence []string
	for _, s := range removed {
		evidence = append(evidence, fmt.Sprintf("%s:%d: removed %s %s", c.cfg.Path, s.Line, s.Kind, s.Name))
	}
	return evidence, nil
}
