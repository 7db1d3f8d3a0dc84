// internal/handlers/pallets.go
package handlers

import (
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

// PalletHandler handles pallet-related HTTP requests
type PalletHandler struct {
	service ports.PalletService
	logger  *slog.Logger
}

// NewPalletHandler creates a new pallet handler
func NewPalletHandler(service ports.PalletService, logger *slog.Logger) *PalletHandler {
	return &PalletHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "pallets")),
	}
}

// GetPallet handles GET /api/v1/pallets/{id}
func (h *PalletHandler) GetPallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid pallet ID format")
		return
	}

	pallet, err := h.service.GetPallet(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get pallet",
			slog.String("pallet_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to retrieve pallet"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, pallet)
}

// ListPallets handles GET /api/v1/pallets
func (h *PalletHandler) ListPallets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pallets, err := h.service.ListPallets(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list pallets",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to list pallets")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"pallets": pallets,
		"total":   len(pallets),
	})
}

// CreatePallet handles POST /api/v1/pallets
func (h *PalletHandler) CreatePallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	pallet := req.ToDomain()

	if err := h.service.CreatePallet(ctx, pallet); err != nil {
		h.logger.ErrorContext(ctx, "failed to create pallet",
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to create pallet"))
		return
	}

	h.logger.InfoContext(ctx, "pallet created",
		slog.String("pallet_id", pallet.ID.String()),
		slog.String("name", pallet.Name))

	respondJSON(w, h.logger, http.StatusCreated, pallet)
}

// UpdatePallet handles PUT /api/v1/pallets/{id}
func (h *PalletHandler) UpdatePallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid pallet ID format")
		return
	}

	var req UpdatePalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	pallet := req.ToDomain()

	if err := h.service.UpdatePallet(ctx, id, pallet); err != nil {
		h.logger.ErrorContext(ctx, "failed to update pallet",
			slog.String("pallet_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to update pallet"))
		return
	}

	updated, err := h.service.GetPallet(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve updated pallet",
			slog.String("pallet_id", idStr),
			slog.String("error", err.Error()))
		respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Pallet updated successfully"})
		return
	}

	h.logger.InfoContext(ctx, "pallet updated",
		slog.String("pallet_id", idStr))

	respondJSON(w, h.logger, http.StatusOK, updated)
}

// DeletePallet handles DELETE /api/v1/pallets/{id}
func (h *PalletHandler) DeletePallet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid pallet ID format")
		return
	}

	if err := h.service.DeletePallet(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete pallet",
			slog.String("pallet_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to delete pallet"))
		return
	}

	h.logger.InfoContext(ctx, "pallet deleted",
		slog.String("pallet_id", idStr))

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":   "Pallet deleted successfully",
		"pallet_id": idStr,
	})
}

// GetPalletProfit handles GET /api/v1/pallets/{id}/profit
func (h *PalletHandler) GetPalletProfit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid pallet ID format")
		return
	}

	profit, err := h.service.PalletProfit(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to compute pallet profit",
			slog.String("pallet_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to compute pallet profit"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"pallet_id": idStr,
		"profit":    profit,
	})
}

// Request/Response DTOs

// CreatePalletRequest represents the request body for creating a pallet
type CreatePalletRequest struct {
	Name         string          `json:"name"`
	Supplier     string          `json:"supplier,omitempty"`
	SourceType   string          `json:"source_type,omitempty"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	SalesTax     decimal.Decimal `json:"sales_tax,omitempty"`
	PurchaseDate *time.Time      `json:"purchase_date,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// Validate validates the create pallet request
func (r *CreatePalletRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.PurchaseCost.IsNegative() {
		return fmt.Errorf("purchase_cost cannot be negative")
	}
	if r.SalesTax.IsNegative() {
		return fmt.Errorf("sales_tax cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreatePalletRequest) ToDomain() *domain.Pallet {
	pallet := &domain.Pallet{
		ID:           uuid.New(),
		Name:         r.Name,
		Supplier:     r.Supplier,
		SourceType:   r.SourceType,
		PurchaseCost: r.PurchaseCost,
		SalesTax:     r.SalesTax,
		Status:       domain.PalletUnprocessed,
		Notes:        r.Notes,
	}

	if r.PurchaseDate != nil {
		pallet.PurchaseDate = *r.PurchaseDate
	} else {
		pallet.PurchaseDate = time.Now()
	}

	return pallet
}

// UpdatePalletRequest represents the request body for updating a pallet
type UpdatePalletRequest struct {
	Name         string          `json:"name"`
	Supplier     string          `json:"supplier,omitempty"`
	SourceType   string          `json:"source_type,omitempty"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	SalesTax     decimal.Decimal `json:"sales_tax,omitempty"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Status       string          `json:"status,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Version      int64           `json:"version"`
}

// Validate validates the update pallet request
func (r *UpdatePalletRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.PurchaseCost.IsNegative() {
		return fmt.Errorf("purchase_cost cannot be negative")
	}
	if r.SalesTax.IsNegative() {
		return fmt.Errorf("sales_tax cannot be negative")
	}
	if r.Version <= 0 {
		return fmt.Errorf("version is required")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *UpdatePalletRequest) ToDomain() *domain.Pallet {
	pallet := &domain.Pallet{
		Name:         r.Name,
		Supplier:     r.Supplier,
		SourceType:   r.SourceType,
		PurchaseCost: r.PurchaseCost,
		SalesTax:     r.SalesTax,
		PurchaseDate: r.PurchaseDate,
		Status:       domain.PalletStatus(r.Status),
		Notes:        r.Notes,
		Version:      r.Version,
	}

	if pallet.Status == "" {
		pallet.Status = domain.PalletUnprocessed
	}

	return pallet
}
