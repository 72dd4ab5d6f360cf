package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/liftlog/liftlog-go/internal/telemetry/logger"
)

// readyTimeout bounds the readiness database round trip.
const readyTimeout = 2 * time.Second

// handlePing handles GET /api/ping.
func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	ok(w, r, "Pong.", "pong")
}

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, r, "Healthy.", map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.svc.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := h.svc.Store.Ping(ctx); err != nil {
			logger.L(r.Context()).Warn("readiness check failed", "error", err)
			Error("Database is not reachable.", "", http.StatusServiceUnavailable).Write(w, r)
			return
		}
	}
	ok(w, r, "Ready.", map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
