package template

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gh-nvat/semver-gate/src/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func breakingReport() models.ReportTemplateData {
	return models.ReportTemplateData{
		ReportData: models.ReportData{
			Timestamp:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			BaseRef:    "origin/main",
			HeadRef:    "HEAD",
			BaseCommit: "1a2b3c4d5e6f",
			HeadCommit: "5d6e7f8a9b0c",
			Verdict: models.Verdict{
				Breaking: true,
				Outcomes: []models.CheckOutcome{
					{Name: models.CHECK_PUBLIC_API, Title: "Public API (cargo-semver-checks)", Status: models.CheckStatusPass, Detector: "semver"},
					{
						Name:     models.CHECK_DATAFRAME_API,
						Title:    "DataFrame API",
						Status:   models.CheckStatusChanged,
						Detector: "pattern",
						Path:     "datafusion/core/src/dataframe/mod.rs",
						Evidence: []string{"datafusion/core/src/dataframe/mod.rs:42: pub fn foo() {"},
						Diff:     &models.DiffResult{Content: "-    pub fn foo() {\n"},
					},
					{Name: models.CHECK_SQL_PARSER, Title: "SQL parser keywords", Status: models.CheckStatusError, Detector: "pattern", Error: "git diff failed"},
				},
			},
			ChangedAreas: []models.ChangedArea{{Match: "src/dataframe", Message: "**DataFrame API**: public methods changed."}},
			Version:      &models.VersionSuggestion{Current: "43.0.0", Suggested: "44.0.0", Bump: "major"},
			PolicyNotes:  []models.PolicyNote{{Policy: "upgrade-guide", Message: "Add an entry to the upgrade guide."}},
		},
		DiffMaxLines: 40,
	}
}

func TestRenderer_RenderReport(t *testing.T) {
	out, err := NewRenderer().RenderReport("", breakingReport())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, ToolCommentSignature))
	for _, want := range []string{
		REPORT_HEADER,
		"This pull request contains changes that may break the public API: 1 of 3 checks flagged it. 1 could not run.",
		"`origin/main` (`1a2b3c4`)",
		"`43.0.0` → `44.0.0` (major)",
		"## Affected areas",
		"- ⚠️ **DataFrame API**: public methods changed. (`src/dataframe`)",
		"| DataFrame API | ❌ CHANGED | pattern |",
		"| Public API (cargo-semver-checks) | ✅ PASS | semver |",
		"### ❌ DataFrame API",
		"- `datafusion/core/src/dataframe/mod.rs:42: pub fn foo() {`",
		"```diff\n-    pub fn foo() {\n```",
		"### 💥 SQL parser keywords",
		"**Error:** git diff failed",
		"- **upgrade-guide**: Add an entry to the upgrade guide.",
		"2026-01-02 03:04:05 UTC",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "### ✅", "passing checks get no detail section")
}

func TestRenderer_RenderReport_NoOptionalSections(t *testing.T) {
	data := models.ReportTemplateData{
		ReportData: models.ReportData{
			Timestamp: time.Now(),
			BaseRef:   "main",
			HeadRef:   "HEAD",
			Verdict:   models.Verdict{Outcomes: []models.CheckOutcome{{Title: "SQL parser keywords", Status: models.CheckStatusPass}}},
		},
	}

	out, err := NewRenderer().RenderReport("", data)
	require.NoError(t, err)

	assert.Contains(t, out, "No breaking changes detected.")
	assert.NotContains(t, out, "Suggested version")
	assert.NotContains(t, out, "## Affected areas")
	assert.NotContains(t, out, "## 📋 Notes")
}

func TestRenderer_RenderReport_CustomTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, REPORT_TEMPLATE),
		[]byte("{{.Marker}}\ncustom {{len .Verdict.ChangedChecks}}{{range .Verdict.Outcomes}}{{template \"check\" ($.View .)}}{{end}}"), 0644))

	out, err := NewRenderer().RenderReport(dir, breakingReport())
	require.NoError(t, err)

	assert.Contains(t, out, "custom 1")
	assert.Contains(t, out, "### ❌ DataFrame API", "missing check template falls back to the embedded one")
}

func TestRenderer_RenderReport_BadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, REPORT_TEMPLATE), []byte("{{.Nope"), 0644))

	_, err := NewRenderer().RenderReport(dir, breakingReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse report template")
}

func TestCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "pub fn foo()", want: "`pub fn foo()`"},
		{in: "a `b` c", want: "``a `b` c``"},
		{in: "`x`", want: "`` `x` ``"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, code(tt.in))
	}
}
