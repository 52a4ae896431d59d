package config

// Detector names
const (
	DETECTOR_PATTERN = "pattern"
	DETECTOR_SYMBOLS = "symbols"
)

// GateConfig represents the complete gate configuration (.github/breaking-changes.yaml)
type GateConfig struct {
	// Manifest is the Cargo.toml checked by cargo-semver-checks and read for the current version
	Manifest     string             `yaml:"manifest"`
	SemverChecks SemverChecksConfig `yaml:"semverChecks"`
	Checks       []FileCheckConfig  `yaml:"checks"`
	Report       ReportConfig       `yaml:"report"`
	Policies     []PolicyConfig     `yaml:"policies"`
}

// SemverChecksConfig configures the external cargo-semver-checks run
type SemverChecksConfig struct {
	Disabled bool `yaml:"disabled"`
	// ConfigPath is a TOML file whose `exclude` array lists workspace packages to skip
	ConfigPath  string   `yaml:"configPath"`
	Exclude     []string `yaml:"exclude"`
	SkipInstall bool     `yaml:"skipInstall"`
	// ExtraArgs are appended to `cargo semver-checks check-release`
	ExtraArgs []string `yaml:"extraArgs"`
}

// FileCheckConfig describes one diff-based check over a watched path
type FileCheckConfig struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
	// Pattern matches the content of a removed line (without the leading "-")
	Pattern  string `yaml:"pattern"`
	Detector string `yaml:"detector"` // "pattern" (default) or "symbols"
	// Analyzer is an optional project binary run as `<analyzer> <base> <head>`
	Analyzer string `yaml:"analyzer,omitempty"`
}

// ReportConfig configures the markdown report
type ReportConfig struct {
	// Areas are matched as substrings against changed file names
	Areas        []AreaConfig `yaml:"areas"`
	DiffMaxLines int          `yaml:"diffMaxLines"`
}

// AreaConfig is one conditional report bullet
type AreaConfig struct {
	Match   string `yaml:"match"`
	Message string `yaml:"message"`
}

// PolicyConfig points at a rego module that produces advisory notes
type PolicyConfig struct {
	Name     string `yaml:"name"`
	FilePath string `yaml:"filePath"`
}
