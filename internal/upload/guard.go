package upload

import (
	"sync"

	"amc-backend/internal/apperr"
)

type branchKey struct{ customerID, branchID int }

// Guard allows at most one upload per branch at a time.
type Guard struct {
	mu       sync.Mutex
	inFlight map[branchKey]struct{}
}

func NewGuard() *Guard {
	return &Guard{inFlight: make(map[branchKey]struct{})}
}

// TryAcquire claims the branch or fails with a conflict. The returned release
// func must be called exactly once.
func (g *Guard) TryAcquire(customerID, branchID int) (release func(), err error) {
	key := branchKey{customerID, branchID}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return nil, apperr.Conflict("An upload is already in progress for this branch")
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}, nil
}

// InFlight reports whether the branch currently has an upload running.
func (g *Guard) InFlight(customerID, branchID int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[branchKey{customerID, branchID}]
	return busy
}
