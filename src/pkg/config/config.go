package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/gh-nvat/semver-gate/src/pkg/models"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var logger = log.WithField("package", "config")

const (
	DEFAULT_CONFIG_PATH        = ".github/breaking-changes.yaml"
	DEFAULT_MANIFEST_PATH      = "Cargo.toml"
	DEFAULT_SEMVER_CONFIG_PATH = ".github/semver-checks.toml"
	DEFAULT_DIFF_MAX_LINES     = 40
)

// ConfigLoader defines the interface for loading configuration files
type ConfigLoader interface {
	// Load loads the gate configuration from a YAML file
	Load(path string) (*GateConfig, error)
	// Validate validates the gate configuration
	Validate(config *GateConfig) error
}

// Loader handles loading configuration files
type Loader struct{}

// Ensure Loader implements ConfigLoader
var _ ConfigLoader = (*Loader)(nil)

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// Default returns the built-in configuration for a DataFusion-style workspace
func Default() *GateConfig {
	return &GateConfig{
		Manifest: DEFAULT_MANIFEST_PATH,
		SemverChecks: SemverChecksConfig{
			ConfigPath: DEFAULT_SEMVER_CONFIG_PATH,
		},
		Checks: []FileCheckConfig{
			{
				Name:     models.CHECK_LOGICAL_PLAN,
				Title:    "Logical plan",
				Path:     "datafusion/expr/src/logical_plan/plan.rs",
				Pattern:  `^\s*(pub(\([^)]*\))?\s+(enum|struct|fn)\s+\w+|[A-Z]\w*(\(.*\)|\s*\{.*\})?,\s*$)`,
				Detector: DETECTOR_PATTERN,
				Analyzer: "analyze-logical-plan-changes",
			},
			{
				Name:     models.CHECK_DATAFRAME_API,
				Title:    "DataFrame API",
				Path:     "datafusion/core/src/dataframe/mod.rs",
				Pattern:  `^\s*pub(\([^)]*\))?\s+(async\s+)?(fn|struct|enum|trait|type)\s+\w+`,
				Detector: DETECTOR_PATTERN,
			},
			{
				Name:     models.CHECK_SQL_PARSER,
				Title:    "SQL parser keywords",
				Path:     "datafusion/sql/src/keywords.rs",
				Pattern:  `^\s*[A-Z][A-Z0-9_]*,\s*$`,
				Detector: DETECTOR_PATTERN,
			},
		},
		Report: ReportConfig{
			Areas: []AreaConfig{
				{Match: "src/logical_expr", Message: "**Logical plan**: changes to logical expressions or `LogicalPlan` may break downstream planners and optimizer rules."},
				{Match: "src/dataframe", Message: "**DataFrame API**: public `DataFrame` methods changed; check downstream callers."},
			},
			DiffMaxLines: DEFAULT_DIFF_MAX_LINES,
		},
	}
}

// Load loads the gate configuration from a YAML file on top of the defaults.
// A missing file is not an error: the defaults are returned.
func (l *Loader) Load(path string) (*GateConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.WithField("path", path).Info("Config file not found, using defaults")
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read gate config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse gate config: %w", err)
	}

	for i := range cfg.Checks {
		if cfg.Checks[i].Detector == "" {
			cfg.Checks[i].Detector = DETECTOR_PATTERN
		}
	}
	if cfg.Report.DiffMaxLines <= 0 {
		cfg.Report.DiffMaxLines = DEFAULT_DIFF_MAX_LINES
	}

	logger.WithField("path", path).WithField("checks", len(cfg.Checks)).Info("Loaded gate config")
	return cfg, nil
}

// LoadAndValidate loads the configuration and validates it
func (l *Loader) LoadAndValidate(path string) (*GateConfig, error) {
	cfg, err := l.Load(path)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid gate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate validates the gate configuration
func (l *Loader) Validate(config *GateConfig) error {
	if config.Manifest == "" && !config.SemverChecks.Disabled {
		return fmt.Errorf("manifest is required unless semverChecks.disabled is set")
	}

	seen := map[string]bool{models.CHECK_PUBLIC_API: true}
	for i, check := range config.Checks {
		if check.Name == "" {
			return fmt.Errorf("check #%d: name is required", i+1)
		}
		if seen[check.Name] {
			return fmt.Errorf("check %s: duplicate name", check.Name)
		}
		seen[check.Name] = true

		if check.Path == "" {
			return fmt.Errorf("check %s: path is required", check.Name)
		}

		switch check.Detector {
		case DETECTOR_PATTERN:
			if check.Pattern == "" {
				return fmt.Errorf("check %s: pattern is required for the pattern detector", check.Name)
			}
		case DETECTOR_SYMBOLS:
		default:
			return fmt.Errorf("check %s: unsupported detector %q (must be %q or %q)", check.Name, check.Detector, DETECTOR_PATTERN, DETECTOR_SYMBOLS)
		}

		if check.Pattern != "" {
			if _, err := regexp.Compile(check.Pattern); err != nil {
				return fmt.Errorf("check %s: invalid pattern: %w", check.Name, err)
			}
		}
	}

	for _, area := range config.Report.Areas {
		if area.Match == "" {
			return fmt.Errorf("report area %q: match is required", area.Message)
		}
	}

	for _, policy := range config.Policies {
		if policy.Name == "" || policy.FilePath == "" {
			return fmt.Errorf("policy entries need both name and filePath")
		}
	}

	return nil
}
