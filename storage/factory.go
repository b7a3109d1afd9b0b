package storage

import "fmt"

// DefaultDir is where the file store keeps records when no path is given.
const DefaultDir = "data"

// Config selects and locates a store. It maps the [Storage] config section.
type Config struct {
	Kind string `ini:"kind"` // file, memory or sqlite
	Path string `ini:"path"` // directory for file, database file for sqlite
}

// NewStore creates an uninitialised store of the given kind.
func NewStore(kind, path string) (Store, error) {
	switch kind {
	case "", "file":
		if path == "" {
			path = DefaultDir
		}
		return NewFileStore(path), nil
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return newSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
