package counter

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps counters in process memory. Values are lost on restart and
// are not shared between instances.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]int64)}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Increment implements Store.
func (s *MemoryStore) Increment(_ context.Context, key string, opts ...Option) (int64, error) {
	o := applyOptions(opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		v = o.seed
	}
	v++
	s.values[key] = v
	return v, nil
}

// List implements Lister.
func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.Lock()
	entries := make([]Entry, 0, len(s.values))
	for k, v := range s.values {
		entries = append(entries, Entry{Key: k, Value: v})
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries, nil
}

// Backend implements Store.
func (s *MemoryStore) Backend() string { return "memory" }
