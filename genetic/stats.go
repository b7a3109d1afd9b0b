package genetic

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the scores of a ranked population.
type Stats struct {
	Count  int
	Best   float64 // Score of the first ranked individual.
	Worst  float64 // Score of the last ranked individual.
	Mean   float64
	StdDev float64 // Sample standard deviation, 0 below two scores.
	Median float64
	Spread float64 // Distance between the lowest and the highest score.
}

// Summarize computes statistics of scores listed in rank order, best first.
func Summarize(scores []float64) Stats {
	if len(scores) == 0 {
		return Stats{}
	}

	sorted := slices.Clone(scores)
	slices.Sort(sorted)

	s := Stats{
		Count:  len(scores),
		Best:   scores[0],
		Worst:  scores[len(scores)-1],
		Mean:   stat.Mean(scores, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Spread: floats.Max(sorted) - floats.Min(sorted),
	}
	if len(scores) > 1 {
		s.StdDev = stat.StdDev(scores, nil)
	}
	return s
}

// summarizePopulation scores a ranked population with the behaviour's scorer.
func summarizePopulation[I any](scorer Scorer[I], ranked []I) Stats {
	if scorer == nil {
		return Stats{Count: len(ranked)}
	}
	scores := make([]float64, len(ranked))
	for i, individual := range ranked {
		scores[i] = scorer.Score(individual)
	}
	return Summarize(scores)
}
