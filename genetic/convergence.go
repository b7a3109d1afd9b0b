package genetic

import (
	"cmp"
	"slices"
)

// Convergence detects when the top results stop changing between generations.
type Convergence[M Mutation, I Individual[M]] struct {
	compare  func(a, b I) int
	results  int
	limit    int
	Repeats  int      // Consecutive checks without a change.
	Previous []string // Keys of the previous top set, in order.
}

// NewConvergence creates a tracker over the top results individuals that
// converges after limit unchanged checks. A limit of zero never converges.
func NewConvergence[M Mutation, I Individual[M]](compare func(a, b I) int, results, limit int) *Convergence[M, I] {
	return &Convergence[M, I]{
		compare: compare,
		results: results,
		limit:   limit,
	}
}

// Top returns the best results individuals of population, ordered by the
// comparator with ties broken by their text.
func (c *Convergence[M, I]) Top(population []I) []I {
	top := slices.Clone(population)
	slices.SortStableFunc(top, func(a, b I) int {
		if order := c.compare(a, b); order != 0 {
			return order
		}
		return cmp.Compare(a.String(), b.String())
	})
	if len(top) > c.results {
		top = top[:max(0, c.results)]
	}
	return top
}

// Update checks population against the previous top set and reports the new
// top set and whether the search converged.
func (c *Convergence[M, I]) Update(population []I) ([]I, bool) {
	top := c.Top(population)
	keys := make([]string, len(top))
	for i, individual := range top {
		keys[i] = individual.Key()
	}

	if c.Previous != nil && slices.Equal(keys, c.Previous) {
		c.Repeats++
	} else {
		c.Repeats = 0
	}
	c.Previous = keys

	return top, c.Converged()
}

// Converged reports whether the repeat limit was reached.
func (c *Convergence[M, I]) Converged() bool {
	return c.limit > 0 && c.Repeats >= c.limit
}
