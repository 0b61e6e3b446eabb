// Package upload moves service job sheets to storage as explicit, cancellable tasks.
package upload

import (
	"context"
	"fmt"
	"time"

	"amc-backend/internal/models"
)

const (
	KindQuarterly = "quarterly"
	KindBreakdown = "breakdown"
)

// Request describes one service sheet to store.
type Request struct {
	Kind       string
	CustomerID int
	BranchID   int
	Quarter    int // quarterly uploads only, 0-based
	Sheet      models.ServiceSheet
}

// Result is what storage reports back for a stored sheet.
type Result struct {
	ObjectKey string
	Size      int64
	Duration  time.Duration
}

type Uploader interface {
	Upload(ctx context.Context, req Request) (Result, error)
}

// SimulatedUploader stands in for real storage: it waits Delay and then succeeds,
// or returns Fail when set. It always honours ctx.
type SimulatedUploader struct {
	Delay time.Duration
	Fail  error
}

func (u SimulatedUploader) Upload(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	if u.Delay > 0 {
		timer := time.NewTimer(u.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if u.Fail != nil {
		return Result{}, u.Fail
	}
	return Result{
		ObjectKey: fmt.Sprintf("simulated/%d/%d/%s", req.CustomerID, req.BranchID, req.Sheet.FileName),
		Size:      int64(len(req.Sheet.Content)),
		Duration:  time.Since(start),
	}, nil
}
