// Package ops exposes a small HTTP surface for liveness probes and
// worker introspection.
package ops

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kiranshivaraju/sprintsight/internal/worker"
)

// Pinger checks backend reachability.
type Pinger interface {
	Health(ctx context.Context) error
}

// StatusSource reports the worker's current state.
type StatusSource interface {
	Snapshot() worker.Status
}

// NewRouter builds the ops router: GET /healthz for probes and
// GET /status for the worker snapshot.
func NewRouter(pinger Pinger, status StatusSource) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 5*time.Second)
		defer cancel()

		if err := pinger.Health(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/status", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, status.Snapshot())
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode ops response", "error", err)
	}
}
