package genetic

import (
	"context"
	"time"
)

// Report is a snapshot pushed to reporters: on the first generation, at most
// once per report interval and once when the search stops.
type Report[I any] struct {
	Generation  int
	Generations int // Generation budget.
	Repeats     int
	Top         []I // Best results, ranked.
	Stats       Stats
	Elapsed     time.Duration
	Final       bool
	Converged   bool
}

// Reporter receives result snapshots. An error aborts the search.
type Reporter[I any] interface {
	Report(ctx context.Context, report Report[I]) error
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc[I any] func(ctx context.Context, report Report[I]) error

func (f ReporterFunc[I]) Report(ctx context.Context, report Report[I]) error {
	return f(ctx, report)
}

// GenerationStats describes one finished generation step.
type GenerationStats struct {
	Generation     int
	PopulationSize int
	Repeats        int
	Duration       time.Duration
	Scores         Stats
}

// Observer is notified after every generation step.
type Observer interface {
	ObserveGeneration(ctx context.Context, stats GenerationStats)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, stats GenerationStats)

func (f ObserverFunc) ObserveGeneration(ctx context.Context, stats GenerationStats) {
	f(ctx, stats)
}
