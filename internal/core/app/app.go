package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"csmerge/internal/core/config"
	"csmerge/internal/core/ports"
	"csmerge/internal/data/history"
	"csmerge/internal/engine/merge"
	"csmerge/internal/shared/util"

	"github.com/google/uuid"
)

type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	discoverer *merge.Discoverer
	pipeline   ports.Pipeline
	history    ports.HistoryStore

	stdout io.Writer
	stderr io.Writer

	newRunID func() string

	wake    chan struct{}
	limiter *util.Limiter

	stateMu    sync.RWMutex
	lastResult *merge.CycleResult
	lastMerged time.Time
	cycles     int
}

// New wires the merge pipeline for cfg. paths must already be resolved.
func New(cfg *config.Config, paths config.ResolvedPaths) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	discoverer, err := merge.NewDiscoverer(merge.DiscoverOptions{
		Root:         paths.SourceRoot,
		OutputPath:   paths.OutputPath,
		Extensions:   cfg.Source.Extensions,
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:     cfg,
		Paths:      paths,
		discoverer: discoverer,
		pipeline:   merge.NewPipeline(discoverer, paths.OutputPath),
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		newRunID:   uuid.NewString,
		wake:       make(chan struct{}, 1),
		limiter:    util.NewLimiter(cfg.Watch.MaxWakeupsPerSecond, 1),
	}, nil
}

func (a *App) SetOutput(stdout, stderr io.Writer) {
	if stdout != nil {
		a.stdout = stdout
	}
	if stderr != nil {
		a.stderr = stderr
	}
}

func (a *App) SetHistory(store ports.HistoryStore) {
	a.history = store
}

// Run executes a single cycle, or the watch loop when watch mode is on.
// The single-cycle error is the cycle's failure; the watch loop returns nil
// once ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if !a.Config.Watch.Enabled {
		res := a.RunCycle(ctx, time.Time{})
		if res.Status == merge.StatusFailed {
			return res.Err
		}
		return nil
	}
	return a.Watch(ctx)
}

// RunCycle runs one pipeline pass against previous and reports the outcome.
func (a *App) RunCycle(ctx context.Context, previous time.Time) merge.CycleResult {
	runID := a.newRunID()
	res := a.pipeline.Run(ctx, previous)

	if res.Err != nil && (errors.Is(res.Err, context.Canceled) || errors.Is(res.Err, context.DeadlineExceeded)) {
		return res
	}

	a.recordState(res)
	a.report(runID, res)
	a.recordHistory(runID, res)
	return res
}

func (a *App) report(runID string, res merge.CycleResult) {
	switch res.Status {
	case merge.StatusMerged:
		fmt.Fprintf(a.stdout, "Updated: %s\n", merge.FormatUpdated(res.LastEdited))
		slog.Info("merged sources",
			"run_id", runID,
			"output", a.Paths.OutputPath,
			"files", res.Files,
			"namespaces", res.Namespaces,
			"imports", res.Imports,
			"duration", res.Duration,
		)
	case merge.StatusUnchanged:
		slog.Debug("sources unchanged", "run_id", runID, "files", res.Files)
	case merge.StatusFailed:
		fmt.Fprintln(a.stderr, res.Err.Error())
		slog.Debug("merge cycle failed", "run_id", runID, "kind", res.Kind, "error", res.Err)
	}
}

func (a *App) recordHistory(runID string, res merge.CycleResult) {
	if a.history == nil || res.Status == merge.StatusUnchanged {
		return
	}
	run := history.MergeRun{
		RunID:       runID,
		Timestamp:   time.Now().UTC(),
		SourceRoot:  a.Paths.SourceRoot,
		OutputPath:  a.Paths.OutputPath,
		Status:      string(res.Status),
		FailureKind: string(res.Kind),
		LastEdited:  res.LastEdited,
		Files:       res.Files,
		Namespaces:  res.Namespaces,
		Imports:     res.Imports,
		Duration:    res.Duration,
	}
	if res.Err != nil {
		run.Error = res.Err.Error()
	}
	if err := a.history.Record(run); err != nil {
		slog.Warn("failed to record merge history", "run_id", runID, "error", err)
	}
}

func (a *App) recordState(res merge.CycleResult) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.cycles++
	a.lastResult = &res
	if res.Merged() {
		a.lastMerged = res.LastEdited
	}
}

// Snapshot is a point-in-time view of the loop for health reporting.
type Snapshot struct {
	Cycles     int
	LastStatus merge.CycleStatus
	LastKind   merge.FailureKind
	LastError  string
	LastMerged time.Time
}

func (a *App) Snapshot() Snapshot {
	a.stateMu.RLock()
	defer a.stateMu.RUnlock()
	snap := Snapshot{Cycles: a.cycles, LastMerged: a.lastMerged}
	if a.lastResult != nil {
		snap.LastStatus = a.lastResult.Status
		snap.LastKind = a.lastResult.Kind
		if a.lastResult.Err != nil {
			snap.LastError = a.lastResult.Err.Error()
		}
	}
	return snap
}
