// internal/handlers/expenses.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// ExpenseHandler handles expense-related HTTP requests. Expenses change
// profit math, so every write clears the cached dashboard artifacts.
type ExpenseHandler struct {
	repo   ports.ExpenseRepository
	cache  ports.CacheRepository
	logger *slog.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(repo ports.ExpenseRepository, cache ports.CacheRepository, logger *slog.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		repo:   repo,
		cache:  cache,
		logger: logger.With(slog.String("handler", "expenses")),
	}
}

// ListExpenses handles GET /api/v1/expenses
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	expenses, err := h.repo.FindAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list expenses",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to list expenses")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
		"total":    len(expenses),
	})
}

// ListPalletExpenses handles GET /api/v1/pallets/{id}/expenses
func (h *ExpenseHandler) ListPalletExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	palletID, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid pallet ID format")
		return
	}

	expenses, err := h.repo.FindByPallet(ctx, palletID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list pallet expenses",
			slog.String("pallet_id", idStr),
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to list pallet expenses")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"pallet_id": idStr,
		"expenses":  expenses,
		"total":     len(expenses),
	})
}

// CreateExpense handles POST /api/v1/expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	expense := req.ToDomain()
	expense.PrepareForStorage()

	if err := h.repo.Save(ctx, expense); err != nil {
		h.logger.ErrorContext(ctx, "failed to create expense",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to create expense")
		return
	}

	h.invalidateDashboard(ctx)
	h.logger.InfoContext(ctx, "expense created",
		slog.String("expense_id", expense.ID.String()),
		slog.String("amount", expense.Amount.String()))

	respondJSON(w, h.logger, http.StatusCreated, expense)
}

// DeleteExpense handles DELETE /api/v1/expenses/{id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid expense ID format")
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete expense",
			slog.String("expense_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to delete expense"))
		return
	}

	h.invalidateDashboard(ctx)
	h.logger.InfoContext(ctx, "expense deleted",
		slog.String("expense_id", idStr))

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":    "Expense deleted successfully",
		"expense_id": idStr,
	})
}

func (h *ExpenseHandler) invalidateDashboard(ctx context.Context) {
	if err := h.cache.DeletePattern(ctx, "dashboard:*"); err != nil {
		h.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}

// Request/Response DTOs

// CreateExpenseRequest represents the request body for creating an expense
type CreateExpenseRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Category  string          `json:"category,omitempty"`
	Date      *time.Time      `json:"date,omitempty"`
	PalletIDs []uuid.UUID     `json:"pallet_ids,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// Validate validates the create expense request
func (r *CreateExpenseRequest) Validate() error {
	if r.Amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreateExpenseRequest) ToDomain() *domain.Expense {
	expense := &domain.Expense{
		Amount:    r.Amount,
		Category:  domain.ExpenseCategory(r.Category),
		PalletIDs: r.PalletIDs,
		Notes:     r.Notes,
	}

	if r.Date != nil {
		expense.Date = *r.Date
	}
	if expense.Category == "" {
		expense.Category = domain.ExpenseOtherCost
	}

	return expense
}
