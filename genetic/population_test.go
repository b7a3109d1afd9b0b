package genetic

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulationStopsAfterRepeats(t *testing.T) {
	settings := testContext()
	settings.GenerationsCount = 100
	settings.RepeatsCount = 3
	behaviour := newPermBehaviour(5, settings)
	behaviour.identity = true

	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)

	result, err := population.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Converged)
	assert.Equal(t, 3, result.Repeats)
	// The first check has nothing to compare with, the next three repeat it.
	assert.Equal(t, 4, result.Generations)
	assert.Len(t, result.Top, settings.ResultsCount)
}

func TestPopulationExhaustsBudget(t *testing.T) {
	settings := testContext()
	settings.GenerationsCount = 5
	behaviour := newPermBehaviour(6, settings)

	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)

	result, err := population.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, result.Converged)
	assert.Equal(t, 5, result.Generations)
	assert.LessOrEqual(t, len(result.Population), settings.PopulationSize)
}

func TestPopulationSeedIncludesLoaded(t *testing.T) {
	behaviour := persistingBehaviour{newPermBehaviour(4, testContext())}
	behaviour.loaded = []*perm{behaviour.individual(0, 1, 2, 3), behaviour.individual(3, 2, 1, 0)}

	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)
	assert.Len(t, population.Individuals, testContext().PopulationSize+2)
}

func TestPopulationPassThrough(t *testing.T) {
	settings := testContext()
	settings.GenerationsCount = 0
	behaviour := persistingBehaviour{newPermBehaviour(3, settings)}
	behaviour.loaded = []*perm{behaviour.individual(0, 1, 2)}

	var reports []Report[*perm]
	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{
		Reporters: []Reporter[*perm]{ReporterFunc[*perm](func(_ context.Context, r Report[*perm]) error {
			reports = append(reports, r)
			return nil
		})},
	})
	require.NoError(t, err)

	result, err := population.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Generations)
	assert.Zero(t, behaviour.crosses.Load())

	// Only 3! = 6 distinct permutations exist, the seed is deduplicated and ranked.
	require.Len(t, behaviour.saved, 1)
	saved := behaviour.saved[0]
	assert.LessOrEqual(t, len(saved), 6)
	assert.Len(t, Unique[swap, *perm](saved), len(saved))
	for i := 1; i < len(saved); i++ {
		assert.LessOrEqual(t, saved[i-1].score(), saved[i].score())
	}

	require.Len(t, reports, 1)
	assert.True(t, reports[0].Final)
}

func TestPopulationReportsEveryGeneration(t *testing.T) {
	settings := testContext()
	settings.GenerationsCount = 3
	behaviour := persistingBehaviour{newPermBehaviour(6, settings)}

	var reports []Report[*perm]
	var observed []GenerationStats
	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{
		Reporters: []Reporter[*perm]{ReporterFunc[*perm](func(_ context.Context, r Report[*perm]) error {
			reports = append(reports, r)
			return nil
		})},
		Observers: []Observer{ObserverFunc(func(_ context.Context, s GenerationStats) {
			observed = append(observed, s)
		})},
	})
	require.NoError(t, err)

	_, err = population.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, reports, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{reports[0].Generation, reports[1].Generation, reports[2].Generation})
	assert.False(t, reports[1].Final)
	assert.True(t, reports[2].Final)
	require.Len(t, behaviour.saved, 3)
	for i, saved := range behaviour.saved {
		assert.Equal(t, reports[i].Top, saved, "push %d saves the top results", i+1)
	}

	require.Len(t, observed, 3)
	for i, stats := range observed {
		assert.Equal(t, i+1, stats.Generation)
		assert.Equal(t, stats.PopulationSize, stats.Scores.Count)
		assert.LessOrEqual(t, stats.Scores.Best, stats.Scores.Worst)
	}
}

func TestPopulationSaveErrorAborts(t *testing.T) {
	behaviour := persistingBehaviour{newPermBehaviour(6, testContext())}
	behaviour.saveErr = errors.New("disk full")

	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)

	result, err := population.Run(context.Background())
	require.ErrorIs(t, err, behaviour.saveErr)
	assert.Equal(t, 1, result.Generations)
}

func TestPopulationSavesTopResultsOnly(t *testing.T) {
	settings := testContext()
	settings.PopulationSize = 10
	settings.ResultsCount = 3
	behaviour := persistingBehaviour{newPermBehaviour(6, settings)}

	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)

	result, err := population.Run(context.Background())
	require.NoError(t, err)
	require.Greater(t, len(result.Population), settings.ResultsCount)

	require.NotEmpty(t, behaviour.saved)
	for _, saved := range behaviour.saved {
		assert.Len(t, saved, settings.ResultsCount)
		for i := 1; i < len(saved); i++ {
			assert.LessOrEqual(t, saved[i-1].score(), saved[i].score())
		}
	}
	assert.Equal(t, result.Top, behaviour.saved[len(behaviour.saved)-1])
}

func TestPopulationCancelledSavesLastGeneration(t *testing.T) {
	settings := testContext()
	settings.ResultsCount = 2
	behaviour := persistingBehaviour{newPermBehaviour(6, settings)}
	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := population.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, result.Generations)
	require.Len(t, behaviour.saved, 1)
	assert.Len(t, behaviour.saved[0], settings.ResultsCount)
}

func TestPopulationCancelledSaveErrorIsNotCancellation(t *testing.T) {
	behaviour := persistingBehaviour{newPermBehaviour(6, testContext())}
	behaviour.saveErr = errors.New("disk full")
	population, err := NewPopulation[swap, *perm](context.Background(), behaviour, Options[*perm]{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = population.Run(ctx)
	require.ErrorIs(t, err, behaviour.saveErr)
	assert.NotErrorIs(t, err, context.Canceled, "callers treat cancellation as a clean stop")
}

func TestPopulationRejectsInvalidContext(t *testing.T) {
	settings := testContext()
	settings.ChildrenCount = 0

	_, err := NewPopulation[swap, *perm](context.Background(), newPermBehaviour(4, settings), Options[*perm]{})
	require.ErrorContains(t, err, "children_count")
}

func TestPopulationResumesFromCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "search.gob.gz")
	settings := testContext()
	settings.GenerationsCount = 2

	first, err := NewPopulation[swap, *perm](context.Background(), newPermBehaviour(6, settings), Options[*perm]{Checkpoint: path})
	require.NoError(t, err)
	interrupted, err := first.Run(context.Background())
	require.NoError(t, err)

	settings.GenerationsCount = 4
	second, err := NewPopulation[swap, *perm](context.Background(), newPermBehaviour(6, settings), Options[*perm]{Checkpoint: path})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Generation)
	if diff := cmp.Diff(keys(interrupted.Population), keys(second.Individuals)); diff != "" {
		t.Errorf("resumed population differs (-saved +resumed):\n%s", diff)
	}

	resumed, err := second.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, resumed.Generations)
}
