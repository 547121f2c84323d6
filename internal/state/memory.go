package state

import (
	"sort"
	"sync"
)

// MemoryStore is an in-process ThreadStore for single-shot requests and
// tests.
type MemoryStore struct {
	mu      sync.RWMutex
	threads map[string]*Thread
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{threads: make(map[string]*Thread)}
}

// Save upserts a thread.
func (s *MemoryStore) Save(t *Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := *t
	dup.State = t.State.Clone()
	s.threads[t.ID] = &dup
	return nil
}

// Load fetches one thread by ID.
func (s *MemoryStore) Load(id string) (*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.threads[id]
	if !ok {
		return nil, ErrThreadNotFound
	}
	dup := *t
	dup.State = t.State.Clone()
	return &dup, nil
}

// List returns all threads, most recently updated first.
func (s *MemoryStore) List() ([]*Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Thread, 0, len(s.threads))
	for _, t := range s.threads {
		dup := *t
		dup.State = t.State.Clone()
		out = append(out, &dup)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// Delete removes one thread.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.threads, id)
	return nil
}
