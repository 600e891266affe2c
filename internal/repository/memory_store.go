package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"nutri_edu_backend/internal/model"
)

// MemorySessionStore is the in-process fallback used when Redis is not
// reachable. Same contract, same TTL semantics on read; state is lost on
// restart, which the session-scoped contract allows.
type MemorySessionStore struct {
	mu  sync.Mutex
	ttl time.Duration

	snapshots map[string]memoryEntry
	flags     map[string]time.Time
	tallies   map[string]*model.SurfaceTally
}

type memoryEntry struct {
	metrics model.BehavioralMetrics
	written time.Time
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		ttl:       ttl,
		snapshots: make(map[string]memoryEntry),
		flags:     make(map[string]time.Time),
		tallies:   make(map[string]*model.SurfaceTally),
	}
}

func (s *MemorySessionStore) SetSnapshot(ctx context.Context, m model.BehavioralMetrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[m.SessionID+":"+m.SurfaceID] = memoryEntry{metrics: m, written: time.Now()}
	return nil
}

func (s *MemorySessionStore) GetSnapshot(ctx context.Context, sessionID, surfaceID string) (*model.BehavioralMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.snapshots[sessionID+":"+surfaceID]
	if !ok || time.Since(e.written) > s.ttl {
		return nil, nil
	}
	m := e.metrics
	return &m, nil
}

func (s *MemorySessionStore) SetFlag(ctx context.Context, sessionID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[sessionID+":"+key] = time.Now()
	return nil
}

func (s *MemorySessionStore) HasFlag(ctx context.Context, sessionID, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.flags[sessionID+":"+key]
	if !ok || time.Since(at) > s.ttl {
		return false, nil
	}
	return true, nil
}

func (s *MemorySessionStore) tally(surfaceID string) *model.SurfaceTally {
	t, ok := s.tallies[surfaceID]
	if !ok {
		t = &model.SurfaceTally{SurfaceID: surfaceID}
		s.tallies[surfaceID] = t
	}
	return t
}

func (s *MemorySessionStore) IncrImpression(ctx context.Context, surfaceID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tally(surfaceID)
	t.Impressions++
	t.LastImpression = &at
	return nil
}

func (s *MemorySessionStore) IncrClick(ctx context.Context, surfaceID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.tally(surfaceID)
	t.Clicks++
	t.LastClick = &at
	return nil
}

func (s *MemorySessionStore) GetTally(ctx context.Context, surfaceID string) (model.SurfaceTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.tally(surfaceID), nil
}

func (s *MemorySessionStore) ListTallies(ctx context.Context) ([]model.SurfaceTally, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.SurfaceTally, 0, len(s.tallies))
	for _, t := range s.tallies {
		out = append(out, *t)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SurfaceID < out[b].SurfaceID })
	return out, nil
}
