package middleware

import (
	"net/http"
	"runtime/debug"

	"amc-backend/internal/metrics"
	"amc-backend/pkg/utils"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery turns a panicking handler into a 500 with the usual error body. A
// panic during a WebSocket stream only drops that connection.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			metrics.HandlerPanics.Inc()
			log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}).Errorf("[Recovery] handler panic: %v\n%s", rec, debug.Stack())

			utils.JSON(w, http.StatusInternalServerError, utils.ErrorBody{
				Error: "Internal server error",
				Kind:  "internal",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
