// Package ergobalance searches for ergonomic keyboard layouts with a generic
// genetic algorithm.
//
// The engine lives in package genetic. It evolves individuals described by a
// Behaviour: how to generate, mutate, cross, compare and optionally persist
// them. Individuals record their mutations relative to an ancestor, so that
// crossing two siblings replays a sample of both parents' edits onto the
// shared ancestor instead of blending their current states.
//
// Two behaviours are provided:
//
//   - letters splits an alphabet between the hands using digraph frequencies;
//   - keyboard places letters on the keys of a split keyboard using a sample
//     text and a grid of typing efforts.
//
// Basic usage:
//
//	config, err := genetic.LoadConfig("configs/letters.ini")
//	if err != nil {
//		return err
//	}
//	behaviour, err := letters.NewBehaviour(config.Genetic, letters.DefaultConfig(), d, store)
//	if err != nil {
//		return err
//	}
//	population, err := genetic.NewPopulation[letters.Mutation, *letters.Letters](ctx, behaviour, genetic.Options[*letters.Letters]{})
//	if err != nil {
//		return err
//	}
//	result, err := population.Run(ctx)
//
// The commands under examples/ wire the behaviours to flags, configuration
// files, result stores and Prometheus metrics.
package ergobalance
