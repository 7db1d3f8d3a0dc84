// internal/core/services/item.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// ItemService handles item business logic
type ItemService struct {
	repo    ports.ItemRepository
	pallets ports.PalletRepository
	alloc   *AllocationService
	limiter *TierLimiter
	fees    analytics.FeeSchedule
	cache   ports.CacheRepository
	logger  *slog.Logger
}

// Statically assert that *ItemService implements the ItemService interface.
var _ ports.ItemService = (*ItemService)(nil)

// NewItemService creates a new item service
func NewItemService(
	repo ports.ItemRepository,
	pallets ports.PalletRepository,
	alloc *AllocationService,
	limiter *TierLimiter,
	fees analytics.FeeSchedule,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *ItemService {
	return &ItemService{
		repo:    repo,
		pallets: pallets,
		alloc:   alloc,
		limiter: limiter,
		fees:    fees,
		cache:   cache,
		logger:  logger.With(slog.String("service", "item")),
	}
}

// CreateItem validates and stores a new item. Items created on a pallet
// trigger a reallocation so every member's share reflects the new head
// count, and nudge an untouched pallet into processing.
func (s *ItemService) CreateItem(ctx context.Context, item *domain.Item) error {
	if err := s.limiter.CheckItemQuota(ctx); err != nil {
		return err
	}

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	item.PrepareForStorage()

	if err := s.repo.Save(ctx, item); err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	if item.PalletID != nil {
		if err := s.alloc.Reallocate(ctx, *item.PalletID); err != nil {
			return err
		}
		if err := s.advancePalletStatus(ctx, *item.PalletID); err != nil {
			return err
		}
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "created item",
		slog.String("item_id", item.ID.String()),
		slog.String("name", item.Name))

	return nil
}

// GetItem retrieves an item by ID
func (s *ItemService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// ListItems retrieves items with filtering and pagination
func (s *ItemService) ListItems(ctx context.Context, params ports.ItemListParams) (*ports.ItemListResult, error) {
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.PageSize <= 0 {
		params.PageSize = 50
	}

	items, totalCount, err := s.repo.FindAll(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	totalPages := int(totalCount) / params.PageSize
	if int(totalCount)%params.PageSize > 0 {
		totalPages++
	}

	return &ports.ItemListResult{
		Items:      items,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// UpdateItem updates an existing item. The pallet link is not editable
// here; MoveItem owns membership changes so allocations stay coherent.
func (s *ItemService) UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}

	item.ID = id
	item.PalletID = existing.PalletID
	item.AllocatedCost = existing.AllocatedCost

	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "updated item",
		slog.String("item_id", id.String()))

	return nil
}

// MarkItemSold records a sale. The platform fee is computed from the
// fee schedule at the moment of sale and stored with the item, so later
// schedule changes never rewrite history.
func (s *ItemService) MarkItemSold(ctx context.Context, id uuid.UUID, terms ports.SaleTerms) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}

	if terms.SalePrice.IsNegative() {
		return fmt.Errorf("validation failed: sale_price cannot be negative")
	}

	var fee *decimal.Decimal
	if terms.Platform != nil {
		computed := s.fees.Fee(terms.SalePrice, *terms.Platform, terms.AuctionStyle)
		fee = &computed
	}

	item.MarkSold(terms.SalePrice, terms.SaleDate, terms.Platform, fee, terms.ShippingCost)

	if err := s.repo.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to record sale: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "marked item sold",
		slog.String("item_id", id.String()),
		slog.String("sale_price", terms.SalePrice.String()))

	return nil
}

// MoveItem reassigns an item to another pallet, or detaches it when
// toPallet is nil. Both sides' allocations commit in one batch.
func (s *ItemService) MoveItem(ctx context.Context, id uuid.UUID, toPallet *uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}

	if equalPalletRef(item.PalletID, toPallet) {
		return nil
	}

	if err := s.alloc.Move(ctx, item, toPallet); err != nil {
		return err
	}

	if toPallet != nil {
		if err := s.advancePalletStatus(ctx, *toPallet); err != nil {
			return err
		}
	}

	s.invalidateDashboard(ctx)
	return nil
}

// DeleteItem soft-deletes an item and re-splits its pallet's cost among
// the remaining members.
func (s *ItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load item: %w", err)
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if item.PalletID != nil {
		if err := s.alloc.Reallocate(ctx, *item.PalletID); err != nil {
			return err
		}
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "deleted item",
		slog.String("item_id", id.String()))

	return nil
}

// advancePalletStatus moves a freshly stocked pallet out of
// unprocessed once its first item lands.
func (s *ItemService) advancePalletStatus(ctx context.Context, palletID uuid.UUID) error {
	pallet, err := s.pallets.FindByID(ctx, palletID)
	if err != nil {
		return fmt.Errorf("failed to load pallet: %w", err)
	}

	if pallet.Status != domain.PalletUnprocessed {
		return nil
	}

	pallet.Status = domain.PalletProcessing
	if err := s.pallets.Update(ctx, pallet); err != nil {
		return fmt.Errorf("failed to advance pallet status: %w", err)
	}
	return nil
}

func (s *ItemService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, dashboardCachePattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}

func equalPalletRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
