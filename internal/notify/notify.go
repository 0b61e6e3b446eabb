// Package notify delivers user-facing notices (the console's toasts) to the sinks
// that display or record them.
package notify

import (
	"context"
	"fmt"

	"amc-backend/internal/models"
	"amc-backend/internal/timeutil"

	"github.com/google/uuid"
)

// Notifier accepts notices. Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, n models.Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n models.Notice)

func (f NotifierFunc) Notify(ctx context.Context, n models.Notice) { f(ctx, n) }

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(context.Context, models.Notice) {})

func New(severity models.Severity, title, description string) models.Notice {
	return models.Notice{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Severity:    severity,
		CreatedAt:   timeutil.Now(),
	}
}

func Success(title, format string, args ...any) models.Notice {
	return New(models.SeveritySuccess, title, fmt.Sprintf(format, args...))
}

func Info(title, format string, args ...any) models.Notice {
	return New(models.SeverityInfo, title, fmt.Sprintf(format, args...))
}

func Destructive(title, format string, args ...any) models.Notice {
	return New(models.SeverityDestructive, title, fmt.Sprintf(format, args...))
}

// Fanout delivers each notice to every sink in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n models.Notice) {
	for _, sink := range f {
		sink.Notify(ctx, n)
	}
}
