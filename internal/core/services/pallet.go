// internal/core/services/pallet.go
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

// dashboardCachePattern matches every cached dashboard artifact. Writes
// that change profit math must clear it.
const dashboardCachePattern = "dashboard:*"

// PalletService handles pallet business logic
type PalletService struct {
	repo     ports.PalletRepository
	items    ports.ItemRepository
	expenses ports.ExpenseRepository
	alloc    *AllocationService
	limiter  *TierLimiter
	cache    ports.CacheRepository
	logger   *slog.Logger
}

// Statically assert that *PalletService implements the PalletService interface.
var _ ports.PalletService = (*PalletService)(nil)

// NewPalletService creates a new pallet service
func NewPalletService(
	repo ports.PalletRepository,
	items ports.ItemRepository,
	expenses ports.ExpenseRepository,
	alloc *AllocationService,
	limiter *TierLimiter,
	cache ports.CacheRepository,
	logger *slog.Logger,
) *PalletService {
	return &PalletService{
		repo:     repo,
		items:    items,
		expenses: expenses,
		alloc:    alloc,
		limiter:  limiter,
		cache:    cache,
		logger:   logger.With(slog.String("service", "pallet")),
	}
}

// CreatePallet validates and stores a new pallet.
func (s *PalletService) CreatePallet(ctx context.Context, pallet *domain.Pallet) error {
	if err := s.limiter.CheckPalletQuota(ctx); err != nil {
		return err
	}

	if err := pallet.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	pallet.PrepareForStorage()

	if err := s.repo.Save(ctx, pallet); err != nil {
		return fmt.Errorf("failed to save pallet: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "created pallet",
		slog.String("pallet_id", pallet.ID.String()),
		slog.String("name", pallet.Name))

	return nil
}

// GetPallet retrieves a pallet by ID
func (s *PalletService) GetPallet(ctx context.Context, id uuid.UUID) (*domain.Pallet, error) {
	pallet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get pallet: %w", err)
	}
	return pallet, nil
}

// ListPallets retrieves all pallets
func (s *PalletService) ListPallets(ctx context.Context) ([]domain.Pallet, error) {
	pallets, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pallets: %w", err)
	}
	return pallets, nil
}

// UpdatePallet updates an existing pallet. When the pallet's cost
// changed, member allocations are recomputed so cost bases stay
// consistent with the new total.
func (s *PalletService) UpdatePallet(ctx context.Context, id uuid.UUID, pallet *domain.Pallet) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load pallet: %w", err)
	}

	pallet.ID = id
	if err := pallet.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := s.repo.Update(ctx, pallet); err != nil {
		return fmt.Errorf("failed to update pallet: %w", err)
	}

	if !existing.TotalCost().Equal(pallet.TotalCost()) {
		if err := s.alloc.Reallocate(ctx, id); err != nil {
			return err
		}
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "updated pallet",
		slog.String("pallet_id", id.String()))

	return nil
}

// DeletePallet soft-deletes a pallet. Members are detached first so
// they survive as individual items with their own purchase cost.
func (s *PalletService) DeletePallet(ctx context.Context, id uuid.UUID) error {
	if err := s.alloc.ReleaseAll(ctx, id); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pallet: %w", err)
	}

	s.invalidateDashboard(ctx)
	s.logger.InfoContext(ctx, "deleted pallet",
		slog.String("pallet_id", id.String()))

	return nil
}

// PalletProfit computes realized profit for one pallet: net proceeds of
// its sold members minus this pallet's share of linked expenses.
func (s *PalletService) PalletProfit(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	pallet, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load pallet: %w", err)
	}

	members, err := s.items.FindByPallet(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load pallet members: %w", err)
	}

	expenses, err := s.expenses.FindByPallet(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load pallet expenses: %w", err)
	}

	return analytics.PalletProfit(pallet, members, expenses), nil
}

func (s *PalletService) invalidateDashboard(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, dashboardCachePattern); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate dashboard cache",
			slog.String("error", err.Error()))
	}
}
