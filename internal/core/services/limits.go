// internal/core/services/limits.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ammerola/palletflow/internal/core/ports"
)

// ErrLimitExceeded is returned when a create would push the account past
// its subscription tier allowance.
var ErrLimitExceeded = errors.New("subscription tier limit exceeded")

// TierLimits caps how much inventory an account may hold. Zero or
// negative values mean unlimited. The values are injected from config
// at construction; nothing reads them from global state.
type TierLimits struct {
	MaxPallets int
	MaxItems   int
}

// TierLimiter checks tier allowances before create operations.
type TierLimiter struct {
	limits  TierLimits
	pallets ports.PalletRepository
	items   ports.ItemRepository
}

// NewTierLimiter creates a new tier limiter
func NewTierLimiter(limits TierLimits, pallets ports.PalletRepository, items ports.ItemRepository) *TierLimiter {
	return &TierLimiter{limits: limits, pallets: pallets, items: items}
}

// CheckPalletQuota returns ErrLimitExceeded when another pallet would
// exceed the tier allowance.
func (l *TierLimiter) CheckPalletQuota(ctx context.Context) error {
	if l.limits.MaxPallets <= 0 {
		return nil
	}

	count, err := l.pallets.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pallets: %w", err)
	}
	if count >= int64(l.limits.MaxPallets) {
		return fmt.Errorf("%w: pallet limit is %d", ErrLimitExceeded, l.limits.MaxPallets)
	}
	return nil
}

// CheckItemQuota returns ErrLimitExceeded when another item would
// exceed the tier allowance.
func (l *TierLimiter) CheckItemQuota(ctx context.Context) error {
	if l.limits.MaxItems <= 0 {
		return nil
	}

	count, err := l.items.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	if count >= int64(l.limits.MaxItems) {
		return fmt.Errorf("%w: item limit is %d", ErrLimitExceeded, l.limits.MaxItems)
	}
	return nil
}
