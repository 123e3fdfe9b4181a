// internal/history/memory.go
package history

import (
	"context"
	"sync"
)

// MemoryStore is a thread-safe, in-memory implementation of Store,
// used in tests and for running without Redis.
type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		lists: make(map[string][]string),
	}
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) AppendLine(_ context.Context, key, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[key] = append([]string{line}, s.lists[key]...)
	return nil
}

func (s *MemoryStore) RecentLines(_ context.Context, key string, n int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := s.lists[key]
	if n < len(lines) {
		lines = lines[:n]
	}
	result := make([]string, len(lines))
	copy(result, lines)
	return result, nil
}
