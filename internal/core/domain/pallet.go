// internal/core/domain/pallet.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PalletStatus represents the processing state of a pallet
type PalletStatus string

// Pallet status constants
const (
	PalletUnprocessed PalletStatus = "unprocessed"
	PalletProcessing  PalletStatus = "processing"
	PalletCompleted   PalletStatus = "completed"
)

// UnknownSource is the fallback bucket for pallets without a source type.
// It is never eligible for best-source ranking.
const UnknownSource = "Unknown"

// Pallet represents a bulk purchase whose acquisition cost is shared by
// its member items.
type Pallet struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Supplier     string          `json:"supplier,omitempty"`
	SourceType   string          `json:"source_type,omitempty"`
	PurchaseCost decimal.Decimal `json:"purchase_cost"`
	SalesTax     decimal.Decimal `json:"sales_tax"`
	PurchaseDate time.Time       `json:"purchase_date"`
	Status       PalletStatus    `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	Version      int64           `json:"version"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    *time.Time      `json:"deleted_at,omitempty"`
}

// TotalCost returns the full acquisition cost of the pallet,
// purchase cost plus sales tax.
func (p *Pallet) TotalCost() decimal.Decimal {
	return p.PurchaseCost.Add(p.SalesTax)
}

// SourceBucket returns the source type, or the unknown bucket when unset.
func (p *Pallet) SourceBucket() string {
	if p.SourceType == "" {
		return UnknownSource
	}
	return p.SourceType
}

// Validate performs domain validation on the pallet
func (p *Pallet) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.PurchaseCost.IsNegative() {
		return fmt.Errorf("purchase_cost cannot be negative")
	}
	if p.SalesTax.IsNegative() {
		return fmt.Errorf("sales_tax cannot be negative")
	}
	if p.Status == "" {
		p.Status = PalletUnprocessed
	}
	return nil
}

// PrepareForStorage sets identity and timestamps ahead of persistence
func (p *Pallet) PrepareForStorage() {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	if p.PurchaseDate.IsZero() {
		p.PurchaseDate = now
	}
}
