// Package storage persists result lines between runs.
package storage

import "context"

// Store keeps named records of result lines, one line per individual.
// Saving a record replaces its previous content.
type Store interface {
	Init(ctx context.Context) error
	SaveResults(ctx context.Context, name string, lines []string) error
	LoadResults(ctx context.Context, name string) ([]string, bool, error)
}
