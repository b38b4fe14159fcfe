package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/osse101/ReelSpin_Go/internal/database"
)

const readinessTimeout = 2 * time.Second

// Health status values
const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
	StorageMemory     = "memory"
)

// HealthResponse is the body of /healthz and /readyz
type HealthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// HandleHealthz answers as long as the process can serve HTTP
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: StatusOK})
	}
}

// HandleReadyz reports whether spins can be recorded. A nil pool means the
// in-memory stores are in use, which are always ready.
func HandleReadyz(dbPool database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if dbPool == nil {
			respondJSON(w, http.StatusOK, HealthResponse{
				Status: StatusOK,
				Checks: map[string]string{"storage": StorageMemory},
			})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			slog.Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  StatusUnavailable,
				Message: "database connection failed",
				Checks:  map[string]string{"storage": StatusUnavailable},
			})
			return
		}
		respondJSON(w, http.StatusOK, HealthResponse{
			Status: StatusOK,
			Checks: map[string]string{"storage": StatusOK},
		})
	}
}
