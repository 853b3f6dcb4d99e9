package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps audit history in process. It is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	runs  map[string][]AuditRun
	limit int
}

// NewMemoryStore keeps at most limit runs per path. A limit below 1 keeps all.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{runs: map[string][]AuditRun{}, limit: limit}
}

func (s *MemoryStore) Save(_ context.Context, run AuditRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := PathKey(run.Path)
	// newest first
	list := append([]AuditRun{run}, s.runs[key]...)
	if s.limit > 0 && len(list) > s.limit {
		list = list[:s.limit]
	}
	s.runs[key] = list
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, path string, limit int) ([]AuditRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.runs[PathKey(path)]
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	out := make([]AuditRun, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
