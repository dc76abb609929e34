package app

import (
	"context"
	"log/slog"
	"time"

	"csmerge/internal/core/ports"
	"csmerge/internal/core/watcher"
	"csmerge/internal/shared/observability"
)

// Watch polls the source tree every interval until ctx is cancelled.
// The output is rewritten only when the newest source mtime moves.
func (a *App) Watch(ctx context.Context) error {
	if a.Config.Watch.Notify {
		notifier, err := a.startNotifier()
		if err != nil {
			slog.Warn("file notifications unavailable, polling only", "error", err)
		} else {
			defer notifier.Close()
		}
	}

	slog.Info("watching sources",
		"root", a.Paths.SourceRoot,
		"output", a.Paths.OutputPath,
		"interval", a.Config.Watch.Interval,
	)

	var previous time.Time
	for {
		if ctx.Err() != nil {
			return nil
		}
		if !a.wait(ctx) {
			return nil
		}

		res := a.RunCycle(ctx, previous)
		if res.Merged() {
			previous = res.LastEdited
		}
	}
}

// wait blocks for one interval or an early wake-up. It reports false when
// ctx ends first.
func (a *App) wait(ctx context.Context) bool {
	timer := time.NewTimer(a.Config.Watch.Interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	case <-a.wake:
		return true
	}
}

func (a *App) startNotifier() (ports.ChangeNotifier, error) {
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, a.discoverer, a.HandleChanges)
	if err != nil {
		return nil, err
	}
	if err := w.Watch([]string{a.Paths.SourceRoot}); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}

// HandleChanges turns a debounced batch of changed paths into at most one
// pending wake-up.
func (a *App) HandleChanges(paths []string) {
	if len(paths) == 0 {
		return
	}
	if !a.limiter.Allow(1) {
		observability.WakeupsDroppedTotal.Inc()
		return
	}
	select {
	case a.wake <- struct{}{}:
		slog.Debug("sources changed", "paths", len(paths))
	default:
	}
}
