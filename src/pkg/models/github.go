package models

import (
	"strings"
	"time"
)

// PullRequest is the subset of a GitHub pull request the gate reads
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	BaseRef string `json:"baseRef"`
	BaseSHA string `json:"baseSha"`
	HeadRef string `json:"headRef"`
	HeadSHA string `json:"headSha"`
}

// Comment is an issue comment on a pull request
type Comment struct {
	ID        int64
	Body      string
	User      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMarker reports whether the comment was written by the gate
func (c *Comment) HasMarker(marker string) bool {
	return marker != "" && strings.Contains(c.Body, marker)
}
