package services

import (
	"context"
	"errors"

	"amc-backend/internal/apperr"
	"amc-backend/internal/metrics"
	"amc-backend/internal/notify"

	log "github.com/sirupsen/logrus"
)

var fieldHints = map[string]string{
	"name":         "Please provide a name.",
	"service_date": "Please pick the date the service was carried out.",
}

// refuse reports a refused operation to the operator and returns err unchanged.
func refuse(ctx context.Context, n notify.Notifier, err error) error {
	var e *apperr.Error
	if !errors.As(err, &e) {
		log.Printf("[AMC] Operation failed: %v", err)
		n.Notify(ctx, notify.Destructive("Something went wrong", "%s", err.Error()))
		return err
	}
	metrics.RejectedOperations.WithLabelValues(e.Kind.String()).Inc()

	switch e.Kind {
	case apperr.KindNotFound:
		if e.Field == apperr.FieldBranch {
			n.Notify(ctx, notify.Destructive("Branch not found", "The requested branch could not be found"))
		} else {
			n.Notify(ctx, notify.Destructive("Customer not found", "The requested customer could not be found"))
		}
	case apperr.KindAuth:
		n.Notify(ctx, notify.Destructive("Incorrect password", "The confirmation password did not match"))
	case apperr.KindValidation:
		hint := fieldHints[e.Field]
		if hint == "" {
			hint = "Please correct the value and try again."
		}
		n.Notify(ctx, notify.Destructive(e.Message, "%s", hint))
	case apperr.KindRange:
		n.Notify(ctx, notify.Destructive("Invalid quarter", "%s", e.Message))
	case apperr.KindConflict:
		n.Notify(ctx, notify.Destructive("Upload in progress", "%s", e.Message))
	case apperr.KindUpload:
		n.Notify(ctx, notify.Destructive("Upload failed", "%s", e.Error()))
	}
	return err
}
