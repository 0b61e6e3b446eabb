package handlers

import (
	"context"
	"net/http"
	"time"

	"amc-backend/internal/health"
	"amc-backend/pkg/utils"
)

// readinessTimeout bounds the database and cache pings of a probe.
const readinessTimeout = 3 * time.Second

type HealthHandler struct {
	checker *health.HealthChecker
}

func NewHealthHandler(checker *health.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// BasicHealth answers liveness probes without touching dependencies.
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "amc-backend"})
}

// ReadinessHealth is 503 while the store is unreachable. A degraded cache keeps the
// service ready.
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := h.checker.CheckBasic(ctx)
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	noStore(w)
	utils.JSON(w, code, status)
}

func (h *HealthHandler) DetailedHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	noStore(w)
	utils.JSON(w, http.StatusOK, h.checker.CheckDetailed(ctx))
}

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}
