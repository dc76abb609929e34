package merge

import (
	"context"
	"time"

	domainerrors "csmerge/internal/core/errors"
	"csmerge/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Pipeline runs Discover → detect → Extract → Aggregate → Write.
type Pipeline struct {
	discoverer *Discoverer
	outputPath string
}

func NewPipeline(discoverer *Discoverer, outputPath string) *Pipeline {
	return &Pipeline{discoverer: discoverer, outputPath: outputPath}
}

// Run executes one cycle. previous is the LastEdited of the last successful
// merge, zero on startup. Every extraction finishes before the output is
// touched, so a failed cycle leaves the previous output intact.
func (p *Pipeline) Run(ctx context.Context, previous time.Time) CycleResult {
	started := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "merge.Pipeline.Run", trace.WithAttributes(
		attribute.String("source.root", p.discoverer.Root()),
		attribute.String("output.path", p.outputPath),
	))
	defer span.End()

	result := p.run(ctx, previous)
	result.Duration = time.Since(started)

	span.SetAttributes(
		attribute.String("cycle.status", string(result.Status)),
		attribute.Int("cycle.files", result.Files),
		attribute.Int("cycle.namespaces", result.Namespaces),
	)
	if result.Err != nil {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, string(result.Kind))
	}

	observability.CyclesTotal.WithLabelValues(string(result.Status)).Inc()
	observability.CycleDuration.WithLabelValues(string(result.Status)).Observe(result.Duration.Seconds())
	return result
}

func (p *Pipeline) run(ctx context.Context, previous time.Time) CycleResult {
	if err := ctx.Err(); err != nil {
		return failed(FailureDiscovery, err)
	}

	paths, err := p.discoverer.Discover(ctx)
	if err != nil {
		return failed(FailureDiscovery, err)
	}
	observability.FilesDiscovered.Set(float64(len(paths)))

	latest, _, err := LatestModTime(paths)
	if err != nil {
		return failed(FailureDiscovery, domainerrors.AddContext(err, domainerrors.CtxOperation, "detect_changes"))
	}
	if Unchanged(latest, previous) {
		return CycleResult{Status: StatusUnchanged, LastEdited: latest, Files: len(paths)}
	}

	agg := NewAggregator()
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			res := failed(FailureExtraction, err)
			res.LastEdited = latest
			return res
		}
		file, err := ExtractFile(path)
		if err != nil {
			res := failed(FailureExtraction, domainerrors.AddContext(err, domainerrors.CtxOperation, "extract"))
			res.LastEdited = latest
			res.Files = len(paths)
			return res
		}
		agg.Add(file)
	}
	merged := agg.Merge()

	if err := WriteOutput(p.outputPath, Render(merged, latest)); err != nil {
		res := failed(FailureWrite, err)
		res.LastEdited = latest
		res.Files = len(paths)
		return res
	}

	observability.NamespacesMerged.Set(float64(len(merged.Namespaces)))
	observability.ImportsMerged.Set(float64(len(merged.Imports)))

	return CycleResult{
		Status:     StatusMerged,
		LastEdited: latest,
		Files:      len(paths),
		Namespaces: len(merged.Namespaces),
		Imports:    len(merged.Imports),
	}
}

func failed(kind FailureKind, err error) CycleResult {
	return CycleResult{Status: StatusFailed, Kind: kind, Err: err}
}
