package notify

import (
	"context"

	"amc-backend/internal/models"

	log "github.com/sirupsen/logrus"
)

// LogSink writes every notice to the application log.
type LogSink struct{}

func (LogSink) Notify(ctx context.Context, n models.Notice) {
	entry := log.WithFields(log.Fields{"notice_id": n.ID, "severity": n.Severity})
	if n.Severity == models.SeverityDestructive {
		entry.Warnf("[Notice] %s: %s", n.Title, n.Description)
		return
	}
	entry.Infof("[Notice] %s: %s", n.Title, n.Description)
}
