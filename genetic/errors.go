package genetic

import "errors"

var (
	// ErrExtinct is returned when a generation step leaves no survivors.
	ErrExtinct = errors.New("population extinct")

	// ErrIncompatibleMutation marks a replayed edit that does not fit the
	// ancestor snapshot. It points to a bug in a behaviour and is fatal.
	ErrIncompatibleMutation = errors.New("incompatible mutation")

	// ErrConflict is returned by replay callbacks for an edit that collides
	// with one already replayed onto the same child. Replay skips it.
	ErrConflict = errors.New("mutation conflicts with a replayed mutation")

	// ErrLineageMismatch is returned when a crossed child does not keep the
	// lineage key of its parents.
	ErrLineageMismatch = errors.New("lineage mismatch")
)
