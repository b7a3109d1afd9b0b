package genetic

import "slices"

// Lineage is a run of ranked individuals derived from one ancestor snapshot.
// Only members of the same lineage are recombined with each other.
type Lineage[I any] struct {
	Kind    string // Version of the shared ancestor snapshot.
	Members []I    // Members in rank order.
}

// Unique drops individuals whose content equals an earlier one.
// The first occurrence is kept and the relative order is preserved.
func Unique[M Mutation, I Individual[M]](items []I) []I {
	seen := make(map[string]struct{}, len(items))
	unique := make([]I, 0, len(items))
	for _, item := range items {
		key := item.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	return unique
}

// Rank returns a copy of items sorted by compare. Equal individuals keep
// their relative order.
func Rank[I any](items []I, compare func(a, b I) int) []I {
	ranked := slices.Clone(items)
	slices.SortStableFunc(ranked, compare)
	return ranked
}

// GroupByKind partitions ranked individuals into contiguous runs that share a
// lineage key. Two runs of the same kind separated by another kind stay apart.
func GroupByKind[M Mutation, I Individual[M]](ranked []I) []Lineage[I] {
	var groups []Lineage[I]
	for _, item := range ranked {
		kind := item.Kind()
		if n := len(groups); n > 0 && groups[n-1].Kind == kind {
			groups[n-1].Members = append(groups[n-1].Members, item)
			continue
		}
		groups = append(groups, Lineage[I]{Kind: kind, Members: []I{item}})
	}
	return groups
}
