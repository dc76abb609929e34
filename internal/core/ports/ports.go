package ports

import (
	"context"
	"time"

	"csmerge/internal/data/history"
	"csmerge/internal/engine/merge"
)

// Pipeline runs one merge cycle against the last merged timestamp.
type Pipeline interface {
	Run(ctx context.Context, previous time.Time) merge.CycleResult
}

// HistoryStore persists merged and failed cycles.
type HistoryStore interface {
	Record(run history.MergeRun) error
}

// ChangeNotifier pushes early wake-ups into the run loop.
type ChangeNotifier interface {
	Watch(paths []string) error
	Close() error
}
