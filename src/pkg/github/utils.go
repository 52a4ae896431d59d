package github

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var pullRefPattern = regexp.MustCompile(`^refs/pull/(\d+)/(merge|head)$`)

// ParseOwnerRepo parses a repository string into owner and repository
// Example: "owner/repository" -> "owner", "repository"
// Example: "owner/repository/subpath" -> "owner", "repository"
func ParseOwnerRepo(repo string) (owner, repository string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s", repo)
	}
	return parts[0], parts[1], nil
}

// PRNumberFromRef extracts the number from refs/pull/<n>/merge
func PRNumberFromRef(ref string) (int, bool) {
	m := pullRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PRNumberFromEvent reads the pull request number from a webhook payload file
func PRNumberFromEvent(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read event payload: %w", err)
	}

	var event struct {
		Number      int `json:"number"`
		PullRequest struct {
			Number int `json:"number"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return 0, fmt.Errorf("failed to parse event payload: %w", err)
	}

	switch {
	case event.PullRequest.Number > 0:
		return event.PullRequest.Number, nil
	case event.Number > 0:
		return event.Number, nil
	default:
		return 0, fmt.Errorf("event payload has no pull request number")
	}
}

// ResolvePRNumber picks the PR number from an explicit value, then the
// GITHUB_REF style ref, then the event payload.
func ResolvePRNumber(explicit int, ref, eventPath string) (int, error) {
	if explicit > 0 {
		return explicit, nil
	}
	if n, ok := PRNumberFromRef(ref); ok {
		return n, nil
	}
	if eventPath != "" {
		return PRNumberFromEvent(eventPath)
	}
	return 0, fmt.Errorf("could not determine pull request number (set --pr-number)")
}
