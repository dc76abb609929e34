package app

import (
	"context"
	"fmt"
	"time"

	"csmerge/internal/engine/merge"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.pipeline == nil {
		status.Status = "degraded"
		status.Components["pipeline"] = "missing"
	} else {
		status.Components["pipeline"] = "ok"
	}

	snap := s.app.Snapshot()
	switch snap.LastStatus {
	case "":
		status.Components["last_cycle"] = "pending"
	case merge.StatusFailed:
		status.Status = "degraded"
		status.Components["last_cycle"] = fmt.Sprintf("failed (%s): %s", snap.LastKind, snap.LastError)
	default:
		status.Components["last_cycle"] = string(snap.LastStatus)
	}
	status.Components["cycles"] = fmt.Sprintf("%d", snap.Cycles)
	if !snap.LastMerged.IsZero() {
		status.Components["last_merged"] = merge.FormatLastEdited(snap.LastMerged)
	}

	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	}

	return status
}
