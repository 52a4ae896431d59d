package models

import "time"

// Well-known check names
const (
	CHECK_PUBLIC_API    = "public_api"
	CHECK_LOGICAL_PLAN  = "logical_plan"
	CHECK_DATAFRAME_API = "dataframe_api"
	CHECK_SQL_PARSER    = "sql_parser"
)

// CheckStatus is the result of one check
type CheckStatus string

const (
	CheckStatusPass    CheckStatus = "PASS"
	CheckStatusChanged CheckStatus = "CHANGED"
	CheckStatusError   CheckStatus = "ERROR"
	CheckStatusSkipped CheckStatus = "SKIPPED"
)

// CheckOutcome is the boolean signal of one named check plus what produced it
type CheckOutcome struct {
	Name     string        `json:"name"`
	Title    string        `json:"title"`
	Status   CheckStatus   `json:"status"`
	Detector string        `json:"detector,omitempty"`
	Path     string        `json:"path,omitempty"`
	Evidence []string      `json:"evidence,omitempty"`
	Diff     *DiffResult   `json:"diff,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"durationNs"`
}

// Changed reports whether the check found a breaking change
func (o CheckOutcome) Changed() bool {
	return o.Status == CheckStatusChanged
}

// Errored reports whether the check could not reach a conclusion
func (o CheckOutcome) Errored() bool {
	return o.Status == CheckStatusError
}
