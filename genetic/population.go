package genetic

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"k8s.io/klog/v2"
)

// Options configures the collaborators of a Population.
type Options[I any] struct {
	Reporters  []Reporter[I] // Receive throttled result snapshots.
	Observers  []Observer    // Receive statistics of every generation.
	Checkpoint string        // Checkpoint file, resumed from when it exists.
}

// Result is the outcome of a search.
type Result[I any] struct {
	Generations int
	Repeats     int
	Converged   bool
	Top         []I
	Population  []I
}

// Population holds the state of the evolutionary process and drives the
// engine until the top results converge or the generation budget runs out.
type Population[M Mutation, I Individual[M]] struct {
	Context     Context
	Behaviour   Behaviour[M, I]
	Algorithm   *GeneticAlgorithm[M, I]
	Convergence *Convergence[M, I]
	Individuals []I // Current generation, ranked after the first step.
	Top         []I // Top results of the current generation.
	Generation  int
	Stats       Stats

	persister  Persister[I]
	scorer     Scorer[I]
	reporters  []Reporter[I]
	observers  []Observer
	checkpoint string
	started    time.Time
	lastPush   time.Time
}

// NewPopulation creates a Population and seeds its first generation.
// The seed is made of PopulationSize generated individuals plus whatever a
// persisting behaviour loads, unless a checkpoint is resumed instead.
func NewPopulation[M Mutation, I Individual[M]](ctx context.Context, behaviour Behaviour[M, I], options Options[I]) (*Population[M, I], error) {
	settings := behaviour.Context()
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	p := &Population[M, I]{
		Context:     settings,
		Behaviour:   behaviour,
		Algorithm:   NewGeneticAlgorithm[M, I](behaviour),
		Convergence: NewConvergence[M, I](behaviour.Compare, settings.ResultsCount, settings.RepeatsCount),
		reporters:   options.Reporters,
		observers:   options.Observers,
		checkpoint:  options.Checkpoint,
	}
	p.persister, _ = any(behaviour).(Persister[I])
	p.scorer, _ = any(behaviour).(Scorer[I])

	logger := klog.FromContext(ctx)

	if p.checkpoint != "" {
		checkpoint, err := LoadCheckpoint[I](p.checkpoint)
		switch {
		case err == nil:
			p.Generation = checkpoint.Generation
			p.Convergence.Repeats = checkpoint.Repeats
			p.Convergence.Previous = checkpoint.Previous
			p.Individuals = checkpoint.Individuals
			p.Top = p.Convergence.Top(p.Individuals)
			p.Stats = summarizePopulation(p.scorer, p.Individuals)
			logger.Info("Resumed from checkpoint", "path", p.checkpoint,
				"generation", p.Generation, "individuals", len(p.Individuals))
			return p, nil
		case errors.Is(err, fs.ErrNotExist):
			logger.V(2).Info("No checkpoint found, starting a new search", "path", p.checkpoint)
		default:
			return nil, err
		}
	}

	p.Individuals = p.Algorithm.Generate(settings.PopulationSize)
	if p.persister != nil {
		loaded, err := p.persister.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load saved individuals: %w", err)
		}
		logger.V(2).Info("Loaded saved individuals", "count", len(loaded))
		p.Individuals = append(p.Individuals, loaded...)
	}
	return p, nil
}

// RunGeneration executes a single generation step and the convergence check.
// It reports whether the top results have been stable for RepeatsCount checks.
func (p *Population[M, I]) RunGeneration(ctx context.Context) (bool, error) {
	p.Generation++
	start := time.Now()

	// 1. Evolve.
	next, err := p.Algorithm.Run(p.Individuals)
	if err != nil {
		return false, fmt.Errorf("generation %d: %w", p.Generation, err)
	}
	p.Individuals = next

	// 2. Check.
	top, converged := p.Convergence.Update(next)
	p.Top = top
	p.Stats = summarizePopulation(p.scorer, next)

	stats := GenerationStats{
		Generation:     p.Generation,
		PopulationSize: len(next),
		Repeats:        p.Convergence.Repeats,
		Duration:       time.Since(start),
		Scores:         p.Stats,
	}
	for _, observer := range p.observers {
		observer.ObserveGeneration(ctx, stats)
	}

	klog.FromContext(ctx).V(3).Info("Generation finished",
		"generation", p.Generation,
		"survivors", len(next),
		"repeats", stats.Repeats,
		"best", p.Stats.Best,
		"duration", stats.Duration)

	return converged, nil
}

// Run drives the search until the top results converge or the generation
// budget is spent, pushing snapshots to the reporters along the way and a
// final one at the end. Pushes save the top results only. A budget of zero
// ranks the seed and saves all of it.
//
// Cancelling ctx stops the search between generations; the top results of the
// last computed generation are still saved and ctx's error is returned. When
// that save fails, its error is returned instead.
func (p *Population[M, I]) Run(ctx context.Context) (Result[I], error) {
	logger := klog.FromContext(ctx)
	p.started = time.Now()
	budget := p.Context.GenerationsCount

	if budget == 0 {
		p.Individuals = Rank(Unique[M, I](p.Individuals), p.Behaviour.Compare)
		p.Top = p.Convergence.Top(p.Individuals)
		p.Stats = summarizePopulation(p.scorer, p.Individuals)
		if err := p.push(ctx, p.Individuals, true); err != nil {
			return p.result(), err
		}
		logger.Info("Seed scored without evolution", "individuals", len(p.Individuals))
		return p.result(), nil
	}

	for p.Generation < budget {
		if err := ctx.Err(); err != nil {
			if len(p.Top) == 0 {
				p.Top = p.Convergence.Top(Unique[M, I](p.Individuals))
			}
			if pushErr := p.push(context.WithoutCancel(ctx), p.Top, true); pushErr != nil {
				return p.result(), fmt.Errorf("search interrupted: %w", pushErr)
			}
			return p.result(), err
		}

		converged, err := p.RunGeneration(ctx)
		if err != nil {
			return p.result(), err
		}
		if converged || p.Generation == budget {
			break
		}
		if p.Generation == 1 || time.Since(p.lastPush) >= p.Context.ReportInterval {
			if err := p.push(ctx, p.Top, false); err != nil {
				return p.result(), err
			}
		}
	}

	if err := p.push(ctx, p.Top, true); err != nil {
		return p.result(), err
	}
	logger.Info("Search finished",
		"generations", p.Generation,
		"converged", p.Convergence.Converged(),
		"repeats", p.Convergence.Repeats,
		"elapsed", time.Since(p.started))
	return p.result(), nil
}

// push saves results, writes the checkpoint of the whole population and
// notifies reporters.
func (p *Population[M, I]) push(ctx context.Context, results []I, final bool) error {
	p.lastPush = time.Now()

	if p.persister != nil {
		if err := p.persister.Save(ctx, results); err != nil {
			return fmt.Errorf("failed to save individuals: %w", err)
		}
	}
	if p.checkpoint != "" {
		err := SaveCheckpoint(p.checkpoint, Checkpoint[I]{
			Generation:  p.Generation,
			Repeats:     p.Convergence.Repeats,
			Previous:    p.Convergence.Previous,
			Individuals: p.Individuals,
		})
		if err != nil {
			return err
		}
	}

	report := Report[I]{
		Generation:  p.Generation,
		Generations: p.Context.GenerationsCount,
		Repeats:     p.Convergence.Repeats,
		Top:         p.Top,
		Stats:       p.Stats,
		Elapsed:     time.Since(p.started),
		Final:       final,
		Converged:   p.Convergence.Converged(),
	}
	for _, reporter := range p.reporters {
		if err := reporter.Report(ctx, report); err != nil {
			return fmt.Errorf("failed to report progress: %w", err)
		}
	}
	return nil
}

func (p *Population[M, I]) result() Result[I] {
	return Result[I]{
		Generations: p.Generation,
		Repeats:     p.Convergence.Repeats,
		Converged:   p.Convergence.Converged(),
		Top:         p.Top,
		Population:  p.Individuals,
	}
}
