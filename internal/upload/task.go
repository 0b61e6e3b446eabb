package upload

import (
	"context"
	"errors"
	"time"

	"amc-backend/internal/apperr"
	"amc-backend/internal/metrics"
)

// Task is one upload running in the background. Its outcome is available once
// Done is closed.
type Task struct {
	done   chan struct{}
	cancel context.CancelFunc
	result Result
	err    error
}

// Start runs u.Upload on its own goroutine. A non-zero timeout bounds the upload;
// cancelling ctx or calling Cancel aborts it.
func Start(ctx context.Context, u Uploader, req Request, timeout time.Duration) *Task {
	var taskCtx context.Context
	var cancel context.CancelFunc
	if timeout > 0 {
		taskCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		taskCtx, cancel = context.WithCancel(ctx)
	}

	t := &Task{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(t.done)
		defer cancel()

		start := time.Now()
		res, err := u.Upload(taskCtx, req)
		metrics.UploadDuration.Observe(time.Since(start).Seconds())

		if err == nil {
			// Success reported after cancellation still counts as cancelled.
			err = taskCtx.Err()
		}
		if err != nil {
			t.err = wrapError(err, req)
			metrics.Uploads.WithLabelValues(req.Kind, outcome(err)).Inc()
			return
		}
		t.result = res
		metrics.Uploads.WithLabelValues(req.Kind, "success").Inc()
	}()
	return t
}

func wrapError(err error, req Request) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Upload(err, "Upload of %s timed out", req.Sheet.FileName)
	case errors.Is(err, context.Canceled):
		return apperr.Upload(err, "Upload of %s was cancelled", req.Sheet.FileName)
	default:
		return apperr.Upload(err, "Upload of %s failed", req.Sheet.FileName)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "failure"
	}
}

func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel aborts the upload. It is safe to call at any time, including after completion.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the task finishes and returns its outcome.
func (t *Task) Wait() (Result, error) {
	<-t.done
	return t.result, t.err
}
