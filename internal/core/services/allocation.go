// internal/core/services/allocation.go
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// AllocationService recomputes per-item cost shares whenever pallet
// membership or pallet cost changes. Every mutation it plans is applied
// as one version-guarded batch: either every affected row commits at
// its expected version, or the whole batch fails with ErrStaleWrite.
type AllocationService struct {
	pallets ports.PalletRepository
	items   ports.ItemRepository
	logger  *slog.Logger
}

// NewAllocationService creates a new allocation service
func NewAllocationService(pallets ports.PalletRepository, items ports.ItemRepository, logger *slog.Logger) *AllocationService {
	return &AllocationService{
		pallets: pallets,
		items:   items,
		logger:  logger.With(slog.String("service", "allocation")),
	}
}

// Reallocate recomputes allocated costs for every current member of the
// pallet. Call it after membership or pallet cost changes that are
// already persisted.
func (s *AllocationService) Reallocate(ctx context.Context, palletID uuid.UUID) error {
	pallet, err := s.pallets.FindByID(ctx, palletID)
	if err != nil {
		return fmt.Errorf("failed to load pallet for reallocation: %w", err)
	}

	members, err := s.items.FindByPallet(ctx, palletID)
	if err != nil {
		return fmt.Errorf("failed to load pallet members: %w", err)
	}

	updates := planShares(pallet, members)
	if len(updates) == 0 {
		return nil
	}

	if err := s.items.UpdateAllocations(ctx, updates); err != nil {
		return fmt.Errorf("failed to apply allocations for pallet %s: %w", palletID, err)
	}

	s.logger.InfoContext(ctx, "reallocated pallet costs",
		slog.String("pallet_id", palletID.String()),
		slog.Int("members", len(updates)))

	return nil
}

// Move reassigns an item to a new pallet (or to none) and recomputes
// shares on both sides in a single batch. The item must be freshly
// loaded so its version reflects the caller's snapshot.
func (s *AllocationService) Move(ctx context.Context, item *domain.Item, toPallet *uuid.UUID) error {
	var updates []ports.AllocationUpdate

	// The moved row itself: new pallet link, share filled in below when
	// it lands on a pallet, cleared otherwise.
	moved := ports.AllocationUpdate{
		ItemID:          item.ID,
		ExpectedVersion: item.Version,
		SetPallet:       true,
		PalletID:        toPallet,
	}

	if item.PalletID != nil {
		sourceUpdates, err := s.planWithout(ctx, *item.PalletID, item.ID)
		if err != nil {
			return err
		}
		updates = append(updates, sourceUpdates...)
	}

	if toPallet != nil {
		pallet, err := s.pallets.FindByID(ctx, *toPallet)
		if err != nil {
			return fmt.Errorf("failed to load destination pallet: %w", err)
		}

		members, err := s.items.FindByPallet(ctx, *toPallet)
		if err != nil {
			return fmt.Errorf("failed to load destination members: %w", err)
		}

		share := analytics.AllocatedShare(pallet.TotalCost(), len(members)+1)
		moved.AllocatedCost = &share
		for i := range members {
			memberShare := share
			updates = append(updates, ports.AllocationUpdate{
				ItemID:          members[i].ID,
				ExpectedVersion: members[i].Version,
				AllocatedCost:   &memberShare,
			})
		}
	}

	updates = append(updates, moved)

	if err := s.items.UpdateAllocations(ctx, updates); err != nil {
		return fmt.Errorf("failed to move item %s: %w", item.ID, err)
	}

	s.logger.InfoContext(ctx, "moved item between pallets",
		slog.String("item_id", item.ID.String()),
		slog.Int("rows_touched", len(updates)))

	return nil
}

// Detach removes an item from its pallet, clears its allocated cost and
// re-splits the remainder among the surviving members.
func (s *AllocationService) Detach(ctx context.Context, item *domain.Item) error {
	return s.Move(ctx, item, nil)
}

// ReleaseAll clears the pallet link and allocated cost for every member
// of a pallet. Used when a pallet is deleted: orphaned items keep their
// own purchase cost as the basis.
func (s *AllocationService) ReleaseAll(ctx context.Context, palletID uuid.UUID) error {
	members, err := s.items.FindByPallet(ctx, palletID)
	if err != nil {
		return fmt.Errorf("failed to load pallet members: %w", err)
	}
	if len(members) == 0 {
		return nil
	}

	updates := make([]ports.AllocationUpdate, 0, len(members))
	for i := range members {
		updates = append(updates, ports.AllocationUpdate{
			ItemID:          members[i].ID,
			ExpectedVersion: members[i].Version,
			SetPallet:       true,
			PalletID:        nil,
		})
	}

	if err := s.items.UpdateAllocations(ctx, updates); err != nil {
		return fmt.Errorf("failed to release pallet members: %w", err)
	}

	s.logger.InfoContext(ctx, "released pallet members",
		slog.String("pallet_id", palletID.String()),
		slog.Int("members", len(members)))

	return nil
}

// planWithout plans new shares for a pallet's members excluding one
// item that is on its way out.
func (s *AllocationService) planWithout(ctx context.Context, palletID, excludeID uuid.UUID) ([]ports.AllocationUpdate, error) {
	pallet, err := s.pallets.FindByID(ctx, palletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source pallet: %w", err)
	}

	members, err := s.items.FindByPallet(ctx, palletID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source members: %w", err)
	}

	remaining := members[:0]
	for i := range members {
		if members[i].ID != excludeID {
			remaining = append(remaining, members[i])
		}
	}

	return planShares(pallet, remaining), nil
}

func planShares(pallet *domain.Pallet, members []domain.Item) []ports.AllocationUpdate {
	if len(members) == 0 {
		return nil
	}

	share := analytics.AllocatedShare(pallet.TotalCost(), len(members))
	updates := make([]ports.AllocationUpdate, 0, len(members))
	for i := range members {
		memberShare := share
		updates = append(updates, ports.AllocationUpdate{
			ItemID:          members[i].ID,
			ExpectedVersion: members[i].Version,
			AllocatedCost:   &memberShare,
		})
	}
	return updates
}
