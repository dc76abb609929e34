package merge

import (
	"time"
)

// SourceFile is one candidate file as seen by a single cycle.
type SourceFile struct {
	Path    string
	ModTime time.Time
}

// Extracted holds a file's namespace and its unwrapped member lines.
type Extracted struct {
	Path      string
	Namespace string
	Lines     []string
}

// Namespace is one output block.
type Namespace struct {
	Name  string
	Lines []string
}

// Merged is the aggregated content ready to be rendered.
type Merged struct {
	Imports    []string
	Namespaces []Namespace
}

type CycleStatus string

const (
	StatusMerged    CycleStatus = "merged"
	StatusUnchanged CycleStatus = "unchanged"
	StatusFailed    CycleStatus = "failed"
)

// FailureKind names the stage that failed a cycle.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureDiscovery  FailureKind = "discovery"
	FailureExtraction FailureKind = "extraction"
	FailureWrite      FailureKind = "write"
)

// CycleResult is the outcome of one pipeline pass.
type CycleResult struct {
	Status CycleStatus
	Kind   FailureKind
	Err    error

	// LastEdited is the newest modification time of the candidate set.
	// On failure it is only set when discovery succeeded.
	LastEdited time.Time

	Files      int
	Namespaces int
	Imports    int
	Duration   time.Duration
}

// Merged reports whether the cycle wrote the output file.
func (r CycleResult) Merged() bool {
	return r.Status == StatusMerged
}
