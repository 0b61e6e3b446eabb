package navigation

import (
	"context"
	"sync"
	"time"

	"amc-backend/internal/cache"
	"amc-backend/internal/metrics"
)

const sessionTTL = 12 * time.Hour

// Sessions keeps one focus per admin. Redis, when configured, mirrors the focus so it
// survives a restart or a hop to another instance.
type Sessions struct {
	mu      sync.Mutex
	byAdmin map[string]Focus
	applyMu map[string]*sync.Mutex
}

func NewSessions() *Sessions {
	return &Sessions{
		byAdmin: make(map[string]Focus),
		applyMu: make(map[string]*sync.Mutex),
	}
}

// adminLock serializes Apply calls of one admin.
func (s *Sessions) adminLock(admin string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.applyMu[admin]
	if !ok {
		l = &sync.Mutex{}
		s.applyMu[admin] = l
	}
	return l
}

// Get returns the admin's focus, CustomerList for a new session.
func (s *Sessions) Get(ctx context.Context, admin string) Focus {
	s.mu.Lock()
	f, ok := s.byAdmin[admin]
	s.mu.Unlock()
	if ok {
		return f
	}

	var snap Snapshot
	if cache.GetJSON(ctx, cache.NavSessionKey(admin), &snap) {
		if restored, err := snap.Focus(); err == nil {
			s.store(admin, restored)
			return restored
		}
	}
	return CustomerList{}
}

func (s *Sessions) Set(ctx context.Context, admin string, f Focus) {
	s.store(admin, f)
	cache.SetJSON(ctx, cache.NavSessionKey(admin), SnapshotOf(f), sessionTTL)
}

func (s *Sessions) store(admin string, f Focus) {
	s.mu.Lock()
	s.byAdmin[admin] = f
	metrics.NavSessions.Set(float64(len(s.byAdmin)))
	s.mu.Unlock()
}

func (s *Sessions) Clear(ctx context.Context, admin string) {
	s.mu.Lock()
	delete(s.byAdmin, admin)
	metrics.NavSessions.Set(float64(len(s.byAdmin)))
	s.mu.Unlock()
	cache.InvalidateKeys(ctx, cache.NavSessionKey(admin))
}

// Apply moves the admin's focus with nav and stores the result. On error the stored
// focus is unchanged. Concurrent calls for the same admin run one at a time, so each
// transition starts from the focus the previous one stored.
func (s *Sessions) Apply(ctx context.Context, nav *Navigator, admin string, a Action) (Focus, error) {
	l := s.adminLock(admin)
	l.Lock()
	defer l.Unlock()

	next, err := nav.Transition(ctx, s.Get(ctx, admin), a)
	if err != nil {
		return s.Get(ctx, admin), err
	}
	s.Set(ctx, admin, next)
	return next, nil
}
