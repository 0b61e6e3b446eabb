package notify

import (
	"context"
	"sync"

	"amc-backend/internal/models"
)

// Recorder stores notices synchronously, in arrival order.
type Recorder struct {
	mu      sync.Mutex
	notices []models.Notice
}

func (r *Recorder) Notify(ctx context.Context, n models.Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *Recorder) Notices() []models.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Titles returns the titles of all recorded notices.
func (r *Recorder) Titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notices))
	for i, n := range r.notices {
		out[i] = n.Title
	}
	return out
}

func (r *Recorder) Last() (models.Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return models.Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.notices = nil
	r.mu.Unlock()
}
