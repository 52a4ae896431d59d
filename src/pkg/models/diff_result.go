package models

// DiffResult is the diff of one watched path
type DiffResult struct {
	Path             string `json:"path"`
	Content          string `json:"-"`
	LineCount        int    `json:"lineCount"`
	AddedLineCount   int    `json:"addedLineCount"`
	DeletedLineCount int    `json:"deletedLineCount"`
}
