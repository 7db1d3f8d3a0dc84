// internal/handlers/items.go
package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// ItemHandler handles item-related HTTP requests
type ItemHandler struct {
	service ports.ItemService
	logger  *slog.Logger
}

// NewItemHandler creates a new item handler
func NewItemHandler(service ports.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "items")),
	}
}

// GetItem handles GET /api/v1/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.service.GetItem(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to retrieve item"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, item)
}

// ListItems handles GET /api/v1/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params := h.parseListParams(r)

	result, err := h.service.ListItems(ctx, params)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list items",
			slog.String("error", err.Error()))
		respondError(w, h.logger, http.StatusInternalServerError, "Failed to list items")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// CreateItem handles POST /api/v1/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain()

	if err := h.service.CreateItem(ctx, item); err != nil {
		h.logger.ErrorContext(ctx, "failed to create item",
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to create item"))
		return
	}

	h.logger.InfoContext(ctx, "item created",
		slog.String("item_id", item.ID.String()),
		slog.String("name", item.Name))

	respondJSON(w, h.logger, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	item := req.ToDomain()

	if err := h.service.UpdateItem(ctx, id, item); err != nil {
		h.logger.ErrorContext(ctx, "failed to update item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to update item"))
		return
	}

	updated, err := h.service.GetItem(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to retrieve updated item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))
		respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Item updated successfully"})
		return
	}

	h.logger.InfoContext(ctx, "item updated",
		slog.String("item_id", idStr))

	respondJSON(w, h.logger, http.StatusOK, updated)
}

// MarkItemSold handles POST /api/v1/items/{id}/sold
func (h *ItemHandler) MarkItemSold(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req MarkSoldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.MarkItemSold(ctx, id, req.ToSaleTerms()); err != nil {
		h.logger.ErrorContext(ctx, "failed to mark item sold",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to mark item sold"))
		return
	}

	updated, err := h.service.GetItem(ctx, id)
	if err != nil {
		respondJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Item marked sold"})
		return
	}

	h.logger.InfoContext(ctx, "item marked sold",
		slog.String("item_id", idStr),
		slog.String("sale_price", req.SalePrice.String()))

	respondJSON(w, h.logger, http.StatusOK, updated)
}

// MoveItem handles POST /api/v1/items/{id}/move
func (h *ItemHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req MoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.service.MoveItem(ctx, id, req.PalletID); err != nil {
		h.logger.ErrorContext(ctx, "failed to move item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to move item"))
		return
	}

	h.logger.InfoContext(ctx, "item moved",
		slog.String("item_id", idStr))

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Item moved successfully",
		"item_id": idStr,
	})
}

// DeleteItem handles DELETE /api/v1/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	idStr := r.PathValue("id")

	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := h.service.DeleteItem(ctx, id); err != nil {
		h.logger.ErrorContext(ctx, "failed to delete item",
			slog.String("item_id", idStr),
			slog.String("error", err.Error()))

		status := statusFromError(err)
		respondError(w, h.logger, status, messageFromStatus(status, "Failed to delete item"))
		return
	}

	h.logger.InfoContext(ctx, "item deleted",
		slog.String("item_id", idStr))

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Item deleted successfully",
		"item_id": idStr,
	})
}

// parseListParams parses query parameters for listing items
func (h *ItemHandler) parseListParams(r *http.Request) ports.ItemListParams {
	params := ports.ItemListParams{
		Page:      1,
		PageSize:  50,
		SortBy:    "created_at",
		SortOrder: "desc",
	}

	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			if l > 100 {
				params.PageSize = 100
			} else {
				params.PageSize = l
			}
		}
	}

	params.Search = r.URL.Query().Get("search")
	params.Status = r.URL.Query().Get("status")
	params.Condition = r.URL.Query().Get("condition")
	params.Platform = r.URL.Query().Get("platform")

	if palletID := r.URL.Query().Get("pallet_id"); palletID != "" {
		if id, err := uuid.Parse(palletID); err == nil {
			params.PalletID = &id
		}
	}

	if sortBy := r.URL.Query().Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}

	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		params.SortOrder = order
	}

	return params
}

// Request/Response DTOs

// CreateItemRequest represents the request body for creating an item
type CreateItemRequest struct {
	PalletID        *uuid.UUID       `json:"pallet_id,omitempty"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	Condition       string           `json:"condition,omitempty"`
	RetailPrice     *decimal.Decimal `json:"retail_price,omitempty"`
	ListingPrice    *decimal.Decimal `json:"listing_price,omitempty"`
	PurchaseCost    *decimal.Decimal `json:"purchase_cost,omitempty"`
	ListingDate     *time.Time       `json:"listing_date,omitempty"`
	StorageLocation string           `json:"storage_location,omitempty"`
	Barcode         string           `json:"barcode,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// Validate validates the create item request
func (r *CreateItemRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Quantity <= 0 {
		r.Quantity = 1
	}
	if r.PurchaseCost != nil && r.PurchaseCost.IsNegative() {
		return fmt.Errorf("purchase_cost cannot be negative")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *CreateItemRequest) ToDomain() *domain.Item {
	item := &domain.Item{
		ID:              uuid.New(),
		PalletID:        r.PalletID,
		Name:            r.Name,
		Quantity:        r.Quantity,
		Condition:       domain.ItemCondition(r.Condition),
		Status:          domain.ItemUnprocessed,
		RetailPrice:     r.RetailPrice,
		ListingPrice:    r.ListingPrice,
		PurchaseCost:    r.PurchaseCost,
		ListingDate:     r.ListingDate,
		StorageLocation: r.StorageLocation,
		Barcode:         r.Barcode,
		Notes:           r.Notes,
	}

	if item.Condition == "" {
		item.Condition = domain.ConditionGood
	}
	if item.ListingDate != nil {
		item.Status = domain.ItemListed
	}

	return item
}

// UpdateItemRequest represents the request body for updating an item
type UpdateItemRequest struct {
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	Condition       string           `json:"condition,omitempty"`
	Status          string           `json:"status,omitempty"`
	RetailPrice     *decimal.Decimal `json:"retail_price,omitempty"`
	ListingPrice    *decimal.Decimal `json:"listing_price,omitempty"`
	PurchaseCost    *decimal.Decimal `json:"purchase_cost,omitempty"`
	ListingDate     *time.Time       `json:"listing_date,omitempty"`
	StorageLocation string           `json:"storage_location,omitempty"`
	Barcode         string           `json:"barcode,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Version         int64            `json:"version"`
}

// Validate validates the update item request
func (r *UpdateItemRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if r.PurchaseCost != nil && r.PurchaseCost.IsNegative() {
		return fmt.Errorf("purchase_cost cannot be negative")
	}
	if r.Version <= 0 {
		return fmt.Errorf("version is required")
	}
	return nil
}

// ToDomain converts the request to a domain model
func (r *UpdateItemRequest) ToDomain() *domain.Item {
	item := &domain.Item{
		Name:            r.Name,
		Quantity:        r.Quantity,
		Condition:       domain.ItemCondition(r.Condition),
		Status:          domain.ItemStatus(r.Status),
		RetailPrice:     r.RetailPrice,
		ListingPrice:    r.ListingPrice,
		PurchaseCost:    r.PurchaseCost,
		ListingDate:     r.ListingDate,
		StorageLocation: r.StorageLocation,
		Barcode:         r.Barcode,
		Notes:           r.Notes,
		Version:         r.Version,
	}

	if item.Condition == "" {
		item.Condition = domain.ConditionGood
	}
	if item.Status == "" {
		item.Status = domain.ItemUnprocessed
	}

	return item
}

// MarkSoldRequest represents the request body for recording a sale
type MarkSoldRequest struct {
	SalePrice    decimal.Decimal  `json:"sale_price"`
	SaleDate     *time.Time       `json:"sale_date,omitempty"`
	Platform     *string          `json:"platform,omitempty"`
	ShippingCost *decimal.Decimal `json:"shipping_cost,omitempty"`
	AuctionStyle bool             `json:"auction_style,omitempty"`
}

// Validate validates the mark sold request
func (r *MarkSoldRequest) Validate() error {
	if r.SalePrice.IsNegative() {
		return fmt.Errorf("sale_price cannot be negative")
	}
	return nil
}

// ToSaleTerms converts the request to service sale terms
func (r *MarkSoldRequest) ToSaleTerms() ports.SaleTerms {
	terms := ports.SaleTerms{
		SalePrice:    r.SalePrice,
		ShippingCost: r.ShippingCost,
		AuctionStyle: r.AuctionStyle,
	}

	if r.SaleDate != nil {
		terms.SaleDate = *r.SaleDate
	} else {
		terms.SaleDate = time.Now()
	}

	if r.Platform != nil && *r.Platform != "" {
		p := domain.Platform(*r.Platform)
		terms.Platform = &p
	}

	return terms
}

// MoveItemRequest represents the request body for moving an item. A null
// pallet_id detaches the item from its pallet.
type MoveItemRequest struct {
	PalletID *uuid.UUID `json:"pallet_id"`
}
