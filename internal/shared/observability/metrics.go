package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "csmerge_cycles_total",
		Help: "Total number of merge cycles by outcome.",
	}, []string{"status"})

	CycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "csmerge_cycle_seconds",
		Help:    "Time spent on one merge cycle, including skipped ones.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	FilesDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "csmerge_files_discovered",
		Help: "Number of candidate source files found by the last discovery pass.",
	})

	NamespacesMerged = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "csmerge_namespaces_merged",
		Help: "Number of namespace blocks written by the last merge.",
	})

	ImportsMerged = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "csmerge_imports_merged",
		Help: "Number of distinct using lines written by the last merge.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csmerge_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WakeupsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "csmerge_wakeups_dropped_total",
		Help: "Total number of watcher wake-ups dropped by the rate limiter.",
	})
)
