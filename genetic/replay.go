package genetic

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Replay implements the crossover protocol on top of a behaviour specific
// apply function. It takes the union of the given mutation sequences without
// duplicates, shuffles it and applies candidates in that order until limit of
// them were applied. The applied subset is returned and becomes the child's
// mutation sequence.
//
// apply is called on a copy of the shared ancestor snapshot owned by the
// caller. An error wrapping ErrConflict skips the candidate, any other error
// aborts the replay with ErrIncompatibleMutation.
func Replay[M Mutation](rng *rand.Rand, limit int, apply func(M) error, sequences ...[]M) ([]M, error) {
	// 1. Union without duplicates, in combined order.
	seen := make(map[M]struct{})
	var union []M
	for _, sequence := range sequences {
		for _, m := range sequence {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			union = append(union, m)
		}
	}

	// 2. Shuffle and replay up to the limit.
	rng.Shuffle(len(union), func(i, j int) { union[i], union[j] = union[j], union[i] })

	applied := make([]M, 0, max(0, min(limit, len(union))))
	for _, m := range union {
		if len(applied) >= limit {
			break
		}
		if err := apply(m); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return nil, fmt.Errorf("%w: %v: %w", ErrIncompatibleMutation, m, err)
		}
		applied = append(applied, m)
	}
	return applied, nil
}
