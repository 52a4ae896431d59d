package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/gh-nvat/semver-gate/src/pkg/models"
)

// runAnalyzer runs `<analyzer> <base> <head>`.
// Exit 0 means unchanged, exit 1 means changed, anything else is a failure.
func (c *FileCheck) runAnalyzer(ctx context.Context, in Input) models.CheckOutcome {
	head := in.Head
	if head == "" {
		head = "HEAD"
	}

	res, err := c.runner.Run(ctx, c.dir, c.cfg.Analyzer, in.Base, head)
	if err != nil {
		return errorOutcome(c.cfg.Name, c.cfg.Title, DETECTOR_ANALYZER, err)
	}

	outcome := models.CheckOutcome{
		Name:     c.cfg.Name,
		Title:    c.cfg.Title,
		Detector: DETECTOR_ANALYZER,
		Path:     c.cfg.Path,
	}

	switch res.ExitCode {
	case 0:
		outcome.Status = models.CheckStatusPass
	case 1:
		outcome.Status = models.CheckStatusChanged
		outcome.Evidence = capEvidence(nonEmptyLines(res.Stdout))
	default:
		outcome.Status = models.CheckStatusError
		outcome.Error = fmt.Sprintf("%s exited with %d: %s", c.cfg.Analyzer, res.ExitCode, lastLines(res.Stderr, 5))
	}
	return outcome
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func lastLines(s string, n int) string {
	lines := nonEmptyLines(s)
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
