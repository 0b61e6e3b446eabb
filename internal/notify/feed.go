package notify

import (
	"context"
	"sync"

	"amc-backend/internal/models"
)

// Feed keeps the most recent notices for GET /api/notices.
type Feed struct {
	mu    sync.RWMutex
	items []models.Notice
	next  int
	full  bool
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = 100
	}
	return &Feed{items: make([]models.Notice, size)}
}

func (f *Feed) Notify(ctx context.Context, n models.Notice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
}

// Recent returns up to limit notices, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []models.Notice {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := f.next
	if f.full {
		count = len(f.items)
	}
	if limit <= 0 || limit > count {
		limit = count
	}
	out := make([]models.Notice, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}
