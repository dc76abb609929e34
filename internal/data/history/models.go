package history

import "time"

const SchemaVersion = 1

// MergeRun is one recorded cycle that merged or failed.
type MergeRun struct {
	ID          int64         `json:"id"`
	RunID       string        `json:"run_id"`
	Timestamp   time.Time     `json:"timestamp"`
	SourceRoot  string        `json:"source_root"`
	OutputPath  string        `json:"output_path"`
	Status      string        `json:"status"`
	FailureKind string        `json:"failure_kind,omitempty"`
	LastEdited  time.Time     `json:"last_edited,omitempty"`
	Files       int           `json:"files"`
	Namespaces  int           `json:"namespaces"`
	Imports     int           `json:"imports"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
}
