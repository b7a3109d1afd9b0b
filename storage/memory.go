package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps records in memory. It is used for dry runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]string)}
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) SaveResults(_ context.Context, name string, lines []string) error {
	if err := validateName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[name] = slices.Clone(lines)
	return nil
}

func (s *MemoryStore) LoadResults(_ context.Context, name string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines, ok := s.records[name]
	return slices.Clone(lines), ok, nil
}
