// internal/core/domain/item.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemCondition represents item conditions
type ItemCondition string

// Condition constants
const (
	ConditionNew       ItemCondition = "new"
	ConditionLikeNew   ItemCondition = "like_new"
	ConditionExcellent ItemCondition = "excellent"
	ConditionGood      ItemCondition = "good"
	ConditionFair      ItemCondition = "fair"
	ConditionPoor      ItemCondition = "poor"
	ConditionForParts  ItemCondition = "for_parts"
)

// ItemStatus represents the lifecycle state of an item
type ItemStatus string

// Item status constants
const (
	ItemUnprocessed ItemStatus = "unprocessed"
	ItemListed      ItemStatus = "listed"
	ItemSold        ItemStatus = "sold"
)

// Platform represents a sales marketplace
type Platform string

// Platform constants
const (
	PlatformEBay     Platform = "ebay"
	PlatformPoshmark Platform = "poshmark"
	PlatformMercari  Platform = "mercari"
	PlatformFacebook Platform = "facebook"
	PlatformEtsy     Platform = "etsy"
	PlatformDepop    Platform = "depop"
	PlatformOther    Platform = "other"
)

// Item represents a single sellable unit. An item optionally belongs to
// exactly one pallet; items without a pallet are "individual" items whose
// cost basis is their own purchase cost.
type Item struct {
	ID              uuid.UUID        `json:"id"`
	PalletID        *uuid.UUID       `json:"pallet_id,omitempty"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	Condition       ItemCondition    `json:"condition"`
	Status          ItemStatus       `json:"status"`
	RetailPrice     *decimal.Decimal `json:"retail_price,omitempty"`
	ListingPrice    *decimal.Decimal `json:"listing_price,omitempty"`
	PurchaseCost    *decimal.Decimal `json:"purchase_cost,omitempty"`
	AllocatedCost   *decimal.Decimal `json:"allocated_cost,omitempty"`
	SalePrice       *decimal.Decimal `json:"sale_price,omitempty"`
	SaleDate        *time.Time       `json:"sale_date,omitempty"`
	ListingDate     *time.Time       `json:"listing_date,omitempty"`
	Platform        *Platform        `json:"platform,omitempty"`
	PlatformFee     *decimal.Decimal `json:"platform_fee,omitempty"`
	ShippingCost    *decimal.Decimal `json:"shipping_cost,omitempty"`
	StorageLocation string           `json:"storage_location,omitempty"`
	Barcode         string           `json:"barcode,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       *time.Time       `json:"deleted_at,omitempty"`
}

// CostBasis returns the authoritative acquisition cost for the item.
// Allocated cost wins when present (pallet-linked item); otherwise the
// item's own purchase cost; zero when neither is set.
func (i *Item) CostBasis() decimal.Decimal {
	if i.AllocatedCost != nil {
		return *i.AllocatedCost
	}
	if i.PurchaseCost != nil {
		return *i.PurchaseCost
	}
	return decimal.Zero
}

// IsSold reports whether the item has been sold
func (i *Item) IsSold() bool {
	return i.Status == ItemSold
}

// IsIndividual reports whether the item has no pallet association
func (i *Item) IsIndividual() bool {
	return i.PalletID == nil
}

// DaysToSell returns the whole days between listing and sale,
// or -1 when either date is missing.
func (i *Item) DaysToSell() int {
	if i.ListingDate == nil || i.SaleDate == nil {
		return -1
	}
	return int(i.SaleDate.Sub(*i.ListingDate).Hours() / 24)
}

// Validate performs domain validation on the item
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("name is required")
	}
	if i.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	if i.PurchaseCost != nil && i.PurchaseCost.IsNegative() {
		return fmt.Errorf("purchase_cost cannot be negative")
	}
	if i.SalePrice != nil && i.SalePrice.IsNegative() {
		return fmt.Errorf("sale_price cannot be negative")
	}
	if i.Condition == "" {
		i.Condition = ConditionGood
	}
	if i.Status == "" {
		i.Status = ItemUnprocessed
	}
	return nil
}

// PrepareForStorage sets identity and timestamps ahead of persistence
func (i *Item) PrepareForStorage() {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
}

// MarkSold transitions the item to sold with the given sale terms.
func (i *Item) MarkSold(price decimal.Decimal, soldAt time.Time, platform *Platform, fee, shipping *decimal.Decimal) {
	i.Status = ItemSold
	i.SalePrice = &price
	i.SaleDate = &soldAt
	i.Platform = platform
	i.PlatformFee = fee
	i.ShippingCost = shipping
}
