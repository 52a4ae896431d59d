package runner

const (
	RUN_MODE_GITHUB = "github"
	RUN_MODE_LOCAL  = "local"

	DEFAULT_REPORT_PATH = "breaking-changes-report.md"
)

type Options struct {
	// Run mode
	RunMode string // "github" or "local"

	// Common options
	ConfigPath    string // checks file, relative to WorkDir
	WorkDir       string // repository root, "" for the current directory
	BaseRef       string
	HeadRef       string
	ReportPath    string
	TemplatesPath string
	SkipInstall   bool

	// Export options
	OutputDir          string
	EnableExportReport bool

	// GitHub mode options
	CommentVia  string // "gh" or "api"
	GhPrNumber  int
	GhRepo      string // GITHUB_REPOSITORY
	GhToken     string // GITHUB_TOKEN
	GhRef       string // GITHUB_REF
	GhEventPath string // GITHUB_EVENT_PATH
	GhEnvFile   string // GITHUB_ENV
}
