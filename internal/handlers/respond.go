// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/palletflow/internal/core/ports"
	"github.com/ammerola/palletflow/internal/core/services"
)

func respondJSON(w http.ResponseWriter, logger *slog.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	respondJSON(w, logger, status, map[string]string{"error": message})
}

// statusFromError maps service errors onto HTTP status codes. Stale
// writes surface as 409 so clients know to refetch and retry.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ports.ErrStaleWrite):
		return http.StatusConflict
	case errors.Is(err, services.ErrLimitExceeded):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func messageFromStatus(status int, fallback string) string {
	switch status {
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Version conflict, refetch and retry"
	case http.StatusForbidden:
		return "Plan limit reached"
	default:
		return fallback
	}
}
