package geocache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local cache. Entries do not survive the process;
// it backs tests and CACHE_BACKEND=memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string][]byte{}}
}

func (s *MemoryStore) Get(_ context.Context, call string) ([]byte, bool, error) {
	s.mu.RLock()
	v, ok := s.entries[call]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

func (s *MemoryStore) Put(_ context.Context, call string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[call]; ok {
		return nil
	}
	s.entries[call] = clone(payload)
	return nil
}

// Len returns the number of stored entries.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
