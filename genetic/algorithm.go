package genetic

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/sourcegraph/conc/pool"
	"k8s.io/klog/v2"
)

// GeneticAlgorithm executes generation steps for one behaviour.
//
// A GeneticAlgorithm is not safe for concurrent use: the master random
// generator is advanced by every call. The behaviour is shared by the workers.
type GeneticAlgorithm[M Mutation, I Individual[M]] struct {
	behaviour Behaviour[M, I]
	context   Context
	rng       *rand.Rand // Seeds one generator per fan-out task.
}

// NewGeneticAlgorithm creates an engine for the behaviour. The behaviour's
// context is read once here.
func NewGeneticAlgorithm[M Mutation, I Individual[M]](behaviour Behaviour[M, I]) *GeneticAlgorithm[M, I] {
	context := behaviour.Context()
	seed := context.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &GeneticAlgorithm[M, I]{
		behaviour: behaviour,
		context:   context,
		rng:       rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Context returns the parameters the engine runs with.
func (a *GeneticAlgorithm[M, I]) Context() Context {
	return a.context
}

// Generate creates count fresh individuals on the worker pool.
func (a *GeneticAlgorithm[M, I]) Generate(count int) []I {
	if count <= 0 {
		return nil
	}

	generated := make([]I, count)
	p := pool.New().WithMaxGoroutines(a.workers())
	for i := range generated {
		rng := a.taskRand()
		p.Go(func() {
			generated[i] = a.behaviour.Generate(rng)
		})
	}
	p.Wait()
	return generated
}

// Run executes one generation step and returns the next population, ranked
// best first. The input slice is not modified.
// ErrExtinct is returned when no individual survives.
func (a *GeneticAlgorithm[M, I]) Run(population []I) ([]I, error) {
	compare := a.behaviour.Compare

	// 1. Mutate every parent, then put the parents back into the pool so they
	// can survive unchanged.
	candidates := a.mutate(population)
	candidates = append(candidates, population...)

	// 2. Deduplicate and rank.
	ranked := Rank(Unique[M, I](candidates), compare)

	// 3. Recombine siblings within each lineage.
	groups := GroupByKind[M, I](ranked)
	recombined, err := a.recombine(groups)
	if err != nil {
		return nil, err
	}

	// 4. Deduplicate, rank and truncate to the target size.
	next := Rank(Unique[M, I](recombined), compare)
	if size := max(0, a.context.PopulationSize); len(next) > size {
		next = next[:size]
	}

	klog.V(4).InfoS("Generation step finished",
		"parents", len(population),
		"candidates", len(candidates),
		"lineages", len(groups),
		"recombined", len(recombined),
		"survivors", len(next))

	if len(next) == 0 {
		return nil, ErrExtinct
	}
	return next, nil
}

// mutate produces ChildrenCount mutants per parent, one task per parent.
func (a *GeneticAlgorithm[M, I]) mutate(parents []I) []I {
	children := make([][]I, len(parents))
	count := max(0, a.context.ChildrenCount)

	p := pool.New().WithMaxGoroutines(a.workers())
	for i, parent := range parents {
		rng := a.taskRand()
		p.Go(func() {
			batch := make([]I, count)
			for j := range batch {
				batch[j] = a.behaviour.Mutate(rng, parent)
			}
			children[i] = batch
		})
	}
	p.Wait()

	// Results are slotted by parent index, the order does not depend on scheduling.
	return slices.Concat(children...)
}

// recombine crosses adjacent members of every lineage, one task per lineage.
// Each lineage contributes its members followed by its crossed children.
func (a *GeneticAlgorithm[M, I]) recombine(groups []Lineage[I]) ([]I, error) {
	results := make([][]I, len(groups))

	p := pool.New().WithMaxGoroutines(a.workers()).WithErrors().WithFirstError()
	for i, group := range groups {
		if len(group.Members) < 2 {
			results[i] = group.Members
			continue
		}
		rng := a.taskRand()
		p.Go(func() error {
			crossed, err := a.cross(rng, group)
			if err != nil {
				return err
			}
			results[i] = append(slices.Clip(group.Members), crossed...)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

// cross produces one child for every pair of rank neighbours in the lineage.
func (a *GeneticAlgorithm[M, I]) cross(rng *rand.Rand, group Lineage[I]) ([]I, error) {
	members := group.Members
	crossed := make([]I, 0, len(members)-1)
	for i := 0; i+1 < len(members); i++ {
		child, err := a.behaviour.Cross(rng, members[i], members[i+1])
		if err != nil {
			return nil, fmt.Errorf("crossing lineage %s: %w", group.Kind, err)
		}
		if child.Kind() != group.Kind {
			return nil, fmt.Errorf("%w: child %s of lineage %s has kind %s",
				ErrLineageMismatch, child.Version(), group.Kind, child.Kind())
		}
		crossed = append(crossed, child)
	}
	return crossed, nil
}

// taskRand returns an independent generator for one fan-out task.
func (a *GeneticAlgorithm[M, I]) taskRand() *rand.Rand {
	return rand.New(rand.NewPCG(a.rng.Uint64(), a.rng.Uint64()))
}

func (a *GeneticAlgorithm[M, I]) workers() int {
	return max(1, a.context.Workers)
}
