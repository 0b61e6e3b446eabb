package notify

import (
	"context"
	"sync"
	"time"

	"amc-backend/internal/metrics"
	"amc-backend/internal/models"

	log "github.com/sirupsen/logrus"
)

// Dispatcher hands notices to its sink on a background goroutine so a slow sink
// never delays the mutation that produced the notice. Order is preserved.
type Dispatcher struct {
	sink   Notifier
	ch     chan models.Notice
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(sink Notifier, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 256
	}
	d := &Dispatcher{
		sink: sink,
		ch:   make(chan models.Notice, buffer),
		done: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.ch {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		d.sink.Notify(ctx, n)
		cancel()
	}
}

// Notify enqueues n. When the buffer is full the notice is dropped and logged.
func (d *Dispatcher) Notify(ctx context.Context, n models.Notice) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}
	select {
	case d.ch <- n:
	default:
		metrics.NoticesDropped.Inc()
		log.WithFields(log.Fields{
			"title":    n.Title,
			"severity": n.Severity,
		}).Warn("[Notify] Notice buffer full, dropping notice")
	}
}

// Close stops accepting notices and waits until queued ones are delivered.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.ch)
	}
	d.mu.Unlock()
	<-d.done
}
