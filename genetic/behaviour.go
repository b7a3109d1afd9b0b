package genetic

import (
	"context"
	"math/rand/v2"
)

// Mutation is an opaque edit descriptor. The engine only compares and
// deduplicates mutations, it never interprets them.
type Mutation interface {
	comparable
}

// Individual is one candidate solution together with its lineage metadata.
//
// Individuals are values: once constructed they are never modified, mutation
// and crossover always build a new individual.
type Individual[M Mutation] interface {
	// Version is a unique token of this individual, used for display and as the
	// lineage key of its mutated children.
	Version() string
	// Kind is the lineage key: the version of the ancestor snapshot the
	// mutation sequence was applied to.
	Kind() string
	// Mutations are the edits applied to the ancestor snapshot, in order.
	Mutations() []M
	// Key is the content representation. Two individuals are equal iff their
	// keys are equal, regardless of version or history.
	Key() string
	// String renders the result line used for reports, persistence and as the
	// tie-break of the convergence check.
	String() string
}

// Behaviour supplies the problem specific rules the engine is generic over.
//
// Implementations are shared between worker goroutines and must be safe for
// concurrent use. All randomness comes from the generator passed in.
type Behaviour[M Mutation, I Individual[M]] interface {
	Context() Context
	Generate(rng *rand.Rand) I
	Mutate(rng *rand.Rand, individual I) I
	// Cross recombines two individuals of the same lineage. The child keeps
	// the lineage key of its parents.
	Cross(rng *rand.Rand, individual, partner I) (I, error)
	// Compare orders individuals by score: a negative result ranks a first.
	// The direction (lower or higher is better) is the behaviour's decision.
	Compare(a, b I) int
}

// Persister is implemented by behaviours that keep results between runs.
type Persister[I any] interface {
	Load(ctx context.Context) ([]I, error)
	Save(ctx context.Context, individuals []I) error
}

// Scorer exposes a scalar view of an individual's score for statistics.
type Scorer[I any] interface {
	Score(individual I) float64
}
