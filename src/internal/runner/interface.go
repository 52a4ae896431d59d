package runner

import "github.com/gh-nvat/semver-gate/src/pkg/models"

type RunnerInterface interface {
	// Initialize loads the configuration, resolves refs and builds the checks
	Initialize() error

	// Main routine: run the checks, build and render the report
	Process() (*models.ReportData, error)

	// Handling the export of the rendered report
	Output(data *models.ReportData, report string) error
}

// Runner is the selected mode-specific runner
type Runner struct {
	RunMode  string
	Instance RunnerInterface
}
