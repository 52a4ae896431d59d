package models

import "time"

// ReportData represents the complete report data structure
type ReportData struct {
	Timestamp  time.Time `json:"timestamp"`
	Repository string    `json:"repository,omitempty"`
	PRNumber   int       `json:"prNumber,omitempty"`
	BaseRef    string    `json:"baseRef"`
	HeadRef    string    `json:"headRef"`
	BaseCommit string    `json:"baseCommit"`
	HeadCommit string    `json:"headCommit"`

	Verdict Verdict `json:"verdict"`

	// Areas found by scanning changed file names, independent of the checks
	ChangedAreas []ChangedArea `json:"changedAreas,omitempty"`
	ChangedFiles []string      `json:"changedFiles,omitempty"`

	Version     *VersionSuggestion `json:"version,omitempty"`
	PolicyNotes []PolicyNote       `json:"policyNotes,omitempty"`
}

// ChangedArea is a conditional report bullet
type ChangedArea struct {
	Match   string `json:"match"`
	Message string `json:"message"`
}

// VersionSuggestion is the next release version implied by the verdict
type VersionSuggestion struct {
	Current   string `json:"current"`
	Suggested string `json:"suggested"`
	Bump      string `json:"bump"` // "major", "minor" or "patch"
}

// PolicyNote is an advisory message produced by a report policy
type PolicyNote struct {
	Policy  string `json:"policy"`
	Message string `json:"message"`
}

// ReportTemplateData represents the data structure for template rendering
type ReportTemplateData struct {
	ReportData
	Marker       string
	DiffMaxLines int
}

// CheckView pairs an outcome with the rendering limits of the report
type CheckView struct {
	CheckOutcome
	DiffMaxLines int
}

// View wraps an outcome for the per-check template
func (d ReportTemplateData) View(o CheckOutcome) CheckView {
	return CheckView{CheckOutcome: o, DiffMaxLines: d.DiffMaxLines}
}

/* sample of desired report

<!-- semver-gate: auto-generated comment, please do not remove -->

# 🚨 Breaking Changes Report

This pull request contains changes that may break the public API.

| Base | Head | Suggested version |
|-|-|-|
| `origin/main` (`1a2b3c4`) | `HEAD` (`5d6e7f8`) | `43.0.0` → `44.0.0` (major) |

## Affected areas

- ⚠️ **Logical plan**: changes to logical expressions or `LogicalPlan` may break downstream planners and optimizer rules. (`src/logical_expr`)
- ⚠️ **DataFrame API**: public `DataFrame` methods changed; check downstream callers. (`src/dataframe`)

## Checks

| Check | Status | Detector |
|-|-|-|
| Public API (cargo-semver-checks) | ❌ CHANGED | semver |
| Logical plan | ❌ CHANGED | pattern |
| DataFrame API | ✅ PASS | pattern |
| SQL parser keywords | ✅ PASS | pattern |

...

*/
