package jobs

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps jobs in process. Terminal jobs expire lazily on Get and
// during Put.
type MemoryStore struct {
	mu      sync.Mutex
	jobs    map[string]Job
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:    make(map[string]Job),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.jobs[j.ID] = j
	delete(s.expires, j.ID)
	return nil
}

func (s *MemoryStore) Finish(ctx context.Context, j Job, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[j.ID] = j
	s.expires[j.ID] = s.now().Add(ttl)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Job, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	j, ok := s.jobs[id]
	return j, ok, nil
}

func (s *MemoryStore) sweep() {
	now := s.now()
	for id, at := range s.expires {
		if !now.Before(at) {
			delete(s.jobs, id)
			delete(s.expires, id)
		}
	}
}
