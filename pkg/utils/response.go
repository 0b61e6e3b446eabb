package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"amc-backend/internal/apperr"

	log "github.com/sirupsen/logrus"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[HTTP] encode response: %v", err)
	}
}

// Error writes err with the status its kind maps to. Untyped errors are logged and
// reported as a generic 500 so internals never leak to clients.
func Error(w http.ResponseWriter, err error) {
	status := apperr.HTTPStatus(err)
	body := ErrorBody{Kind: apperr.KindOf(err).String()}

	var e *apperr.Error
	if errors.As(err, &e) {
		body.Error = e.Message
		body.Field = e.Field
	} else {
		log.WithError(err).Error("[HTTP] unhandled error")
		body.Error = "Internal server error"
	}
	JSON(w, status, body)
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, ErrorBody{Error: msg, Kind: apperr.KindValidation.String()})
}
