// internal/handlers/dashboard.go
package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// DashboardHandler serves the analytics read endpoints.
type DashboardHandler struct {
	service ports.InsightsService
	logger  *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service ports.InsightsService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "dashboard")),
	}
}

// GetInsights handles GET /api/v1/dashboard/insights
func (h *DashboardHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	insights, err := h.service.Insights(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load insights",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to load insights")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"insights":  insights,
		"timestamp": time.Now(),
	})
}

// GetEmptyState handles GET /api/v1/dashboard/empty-state. Established
// users get a null payload; the dashboard shows real data instead.
func (h *DashboardHandler) GetEmptyState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := h.service.EmptyState(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load empty state",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to load empty state")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"empty_state": state,
	})
}

// GetSummary handles GET /api/v1/dashboard/summary?period=week|month|year|all
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period := analytics.PeriodMonth
	if p := r.URL.Query().Get("period"); p != "" {
		parsed, err := analytics.ParsePeriod(p)
		if err != nil {
			respondError(w, h.logger, http.StatusBadRequest, "Invalid period, expected week, month, year or all")
			return
		}
		period = parsed
	}

	summary, err := h.service.Summary(ctx, period)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard summary",
			slog.String("period", string(period)),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to load dashboard summary")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, summary)
}
