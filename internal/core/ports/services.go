// internal/core/ports/services.go
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
)

// PalletService defines the application service port for pallets.
type PalletService interface {
	CreatePallet(ctx context.Context, pallet *domain.Pallet) error
	GetPallet(ctx context.Context, id uuid.UUID) (*domain.Pallet, error)
	ListPallets(ctx context.Context) ([]domain.Pallet, error)
	UpdatePallet(ctx context.Context, id uuid.UUID, pallet *domain.Pallet) error
	DeletePallet(ctx context.Context, id uuid.UUID) error
	PalletProfit(ctx context.Context, id uuid.UUID) (decimal.Decimal, error)
}

// SaleTerms captures the inputs for marking an item sold.
type SaleTerms struct {
	SalePrice    decimal.Decimal  `json:"sale_price"`
	SaleDate     time.Time        `json:"sale_date"`
	Platform     *domain.Platform `json:"platform,omitempty"`
	ShippingCost *decimal.Decimal `json:"shipping_cost,omitempty"`
	AuctionStyle bool             `json:"auction_style"`
}

// ItemService defines the application service port for items.
type ItemService interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListItems(ctx context.Context, params ItemListParams) (*ItemListResult, error)
	UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) error
	MarkItemSold(ctx context.Context, id uuid.UUID, terms SaleTerms) error
	MoveItem(ctx context.Context, id uuid.UUID, toPallet *uuid.UUID) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// DashboardSummary aggregates the headline numbers for a period.
type DashboardSummary struct {
	Period        analytics.Period `json:"period"`
	TotalItems    int              `json:"total_items"`
	TotalPallets  int              `json:"total_pallets"`
	TotalListed   int              `json:"total_listed"`
	TotalSold     int              `json:"total_sold"`
	TotalInvested decimal.Decimal  `json:"total_invested"`
	TotalRevenue  decimal.Decimal  `json:"total_revenue"`
	TotalProfit   decimal.Decimal  `json:"total_profit"`
	AverageROI    decimal.Decimal  `json:"average_roi"`
}

// InsightsService defines the analytics read port consumed by the
// dashboard.
type InsightsService interface {
	Insights(ctx context.Context) ([]domain.Insight, error)
	EmptyState(ctx context.Context) (*analytics.EmptyState, error)
	Summary(ctx context.Context, period analytics.Period) (*DashboardSummary, error)
}
