package diff

import (
	"fmt"
	"regexp"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"
)

const devNull = "/dev/null"

// DiffParser defines the interface for turning `git diff` output into structured changes
type DiffParser interface {
	// Parse parses a unified (possibly multi-file) diff
	Parse(text string) (*Parsed, error)
}

// Differ parses unified diffs produced by git
type Differ struct{}

// Ensure Differ implements DiffParser
var _ DiffParser = (*Differ)(nil)

// NewDiffer creates a new differ
func NewDiffer() *Differ {
	return &Differ{}
}

// Parsed is the structured form of one diff invocation
type Parsed struct {
	Raw   string
	Files []*FileChange
}

// FileChange holds the removed and added lines of one file
type FileChange struct {
	OrigName string
	NewName  string
	Removed  []Line
	Added    []Line
}

// Line is a single removed or added line. Number is the line number in the
// original file for removed lines and in the new file for added lines.
type Line struct {
	Path    string
	Number  int
	Content string
}

// Parse parses the diff text; empty input yields an empty result
func (d *Differ) Parse(text string) (*Parsed, error) {
	parsed := &Parsed{Raw: text}
	if strings.TrimSpace(text) == "" {
		return parsed, nil
	}

	fileDiffs, err := godiff.ParseMultiFileDiff([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff: %w", err)
	}

	for _, fd := range fileDiffs {
		fc := &FileChange{
			OrigName: trimPrefix(fd.OrigName, "a/"),
			NewName:  trimPrefix(fd.NewName, "b/"),
		}
		for _, hunk := range fd.Hunks {
			collectHunk(fc, hunk)
		}
		parsed.Files = append(parsed.Files, fc)
	}

	return parsed, nil
}

func collectHunk(fc *FileChange, hunk *godiff.Hunk) {
	origLine := int(hunk.OrigStartLine)
	newLine := int(hunk.NewStartLine)

	body := strings.TrimSuffix(string(hunk.Body), "\n")
	if body == "" {
		return
	}
	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "-"):
			fc.Removed = append(fc.Removed, Line{Path: fc.Path(), Number: origLine, Content: line[1:]})
			origLine++
		case strings.HasPrefix(line, "+"):
			fc.Added = append(fc.Added, Line{Path: fc.Path(), Number: newLine, Content: line[1:]})
			newLine++
		case strings.HasPrefix(line, `\`):
			// "\ No newline at end of file"
		default:
			origLine++
			newLine++
		}
	}
}

// Path returns the most meaningful name of the file: the new name, or the
// original name when the file was deleted.
func (f *FileChange) Path() string {
	if f.NewName == "" || f.NewName == devNull {
		return f.OrigName
	}
	return f.NewName
}

// Deleted reports whether the whole file was removed
func (f *FileChange) Deleted() bool {
	return f.NewName == devNull
}

// RemovedLines returns every removed line across all files
func (p *Parsed) RemovedLines() []Line {
	var out []Line
	for _, f := range p.Files {
		out = append(out, f.Removed...)
	}
	return out
}

// MatchRemoved returns the removed lines whose content matches re
func (p *Parsed) MatchRemoved(re *regexp.Regexp) []Line {
	var out []Line
	for _, l := range p.RemovedLines() {
		if re.MatchString(l.Content) {
			out = append(out, l)
		}
	}
	return out
}

// Empty reports whether the diff touched no files
func (p *Parsed) Empty() bool {
	return len(p.Files) == 0
}

// FormatForMarkdown formats the diff for display in markdown
func FormatForMarkdown(diff string, maxLines int) string {
	if diff == "" {
		return "_No changes detected_"
	}

	diff = strings.TrimRight(diff, "\n")
	lines := strings.Split(diff, "\n")
	lineCount := len(lines)

	// If diff is large, wrap in <details>
	if lineCount > maxLines {
		var result strings.Builder
		result.WriteString(fmt.Sprintf("<details>\n<summary>📝 Diff (%d lines - click to expand)</summary>\n\n", lineCount))
		result.WriteString("```diff\n")
		result.WriteString(diff)
		result.WriteString("\n```\n")
		result.WriteString("</details>")
		return result.String()
	}

	var result strings.Builder
	result.WriteString("```diff\n")
	result.WriteString(diff)
	result.WriteString("\n```")
	return result.String()
}

func trimPrefix(name, prefix string) string {
	if name == devNull {
		return name
	}
	return strings.TrimPrefix(name, prefix)
}
