package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/gh-nvat/semver-gate/src/pkg/diff"
	"github.com/gh-nvat/semver-gate/src/pkg/models"
	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "template")

const (
	// ToolCommentSignature marks the report so a re-run can find and update its PR comment
	ToolCommentSignature = "<!-- semver-gate: auto-generated comment, please do not remove -->"
	REPORT_HEADER        = "# 🚨 Breaking Changes Report"

	REPORT_TEMPLATE = "report.md.tmpl"
	CHECK_TEMPLATE  = "check.md.tmpl"
)

//go:embed templates/*.md.tmpl
var defaultTemplates embed.FS

// Renderer handles template rendering
type Renderer struct {
	funcMap template.FuncMap
}

// NewRenderer creates a new template renderer
func NewRenderer() *Renderer {
	return &Renderer{
		funcMap: template.FuncMap{
			"gt":           func(a, b int) bool { return a > b },
			"reportHeader": func() string { return REPORT_HEADER },
			"shortSHA":     shortSHA,
			"statusIcon":   statusIcon,
			"code":         code,
			"mdDiff":       diff.FormatForMarkdown,
		},
	}
}

// RenderReport renders the breaking changes report. Files named like the
// embedded templates in templateDir replace them; the rest fall back to the defaults.
func (r *Renderer) RenderReport(templateDir string, data models.ReportTemplateData) (string, error) {
	if data.Marker == "" {
		data.Marker = ToolCommentSignature
	}

	checkContent, err := r.loadTemplate(templateDir, CHECK_TEMPLATE)
	if err != nil {
		return "", err
	}
	reportContent, err := r.loadTemplate(templateDir, REPORT_TEMPLATE)
	if err != nil {
		return "", err
	}

	tmpl := template.New("").Funcs(r.funcMap)
	if _, err := tmpl.New("check").Parse(checkContent); err != nil {
		return "", fmt.Errorf("failed to parse check template: %w", err)
	}
	mainTmpl, err := tmpl.New("report").Parse(reportContent)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := mainTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func (r *Renderer) loadTemplate(templateDir, name string) (string, error) {
	if templateDir != "" {
		path := filepath.Join(templateDir, name)
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			logger.WithField("template", path).Debug("Using custom template")
			return string(content), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("failed to read %s template: %w", name, err)
		}
	}

	content, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("failed to read embedded %s template: %w", name, err)
	}
	return string(content), nil
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

func statusIcon(status models.CheckStatus) string {
	switch status {
	case models.CheckStatusPass:
		return "✅"
	case models.CheckStatusChanged:
		return "❌"
	case models.CheckStatusError:
		return "💥"
	default:
		return "⏭️"
	}
}

// code wraps s in an inline code span that survives backticks in s
func code(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}
