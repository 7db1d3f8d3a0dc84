// internal/core/ports/repositories.go
package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
)

// ErrStaleWrite is returned when an optimistic-concurrency update loses
// the race: the stored version advanced past the caller's snapshot. The
// caller should reload and retry deliberately; the write is never
// applied or retried automatically.
var ErrStaleWrite = errors.New("stale write: record version has advanced")

// ErrNotFound is returned when a record does not exist or is soft-deleted.
var ErrNotFound = errors.New("record not found")

// PalletRepository defines the persistence port for pallets.
type PalletRepository interface {
	Save(ctx context.Context, pallet *domain.Pallet) error
	Update(ctx context.Context, pallet *domain.Pallet) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Pallet, error)
	FindAll(ctx context.Context) ([]domain.Pallet, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// ItemListParams holds filters for listing items.
type ItemListParams struct {
	Search    string
	Status    string
	Condition string
	PalletID  *uuid.UUID
	Platform  string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// ItemListResult holds a page of items.
type ItemListResult struct {
	Items      []domain.Item `json:"items"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalCount int64         `json:"total_count"`
	TotalPages int           `json:"total_pages"`
}

// ItemRepository defines the persistence port for items.
type ItemRepository interface {
	Save(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	// UpdateAllocations rewrites allocated_cost for several items inside
	// the caller's transaction scope, guarding each row with its expected
	// version. Partial application is not possible: any version miss
	// fails the whole batch with ErrStaleWrite.
	UpdateAllocations(ctx context.Context, allocations []AllocationUpdate) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	FindByPallet(ctx context.Context, palletID uuid.UUID) ([]domain.Item, error)
	FindAll(ctx context.Context, params ItemListParams) ([]domain.Item, int64, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// AllocationUpdate carries one item's new allocated cost plus the
// version the caller observed when computing it. A move folds the
// pallet reassignment into the same batch so the whole reallocation
// commits or rolls back together.
type AllocationUpdate struct {
	ItemID          uuid.UUID
	ExpectedVersion int64
	// AllocatedCost is nil to clear the allocation (item leaving a pallet).
	AllocatedCost *decimal.Decimal
	// SetPallet rewrites pallet_id to PalletID (nil detaches the item).
	SetPallet bool
	PalletID  *uuid.UUID
}

// ExpenseRepository defines the persistence port for expenses.
type ExpenseRepository interface {
	Save(ctx context.Context, expense *domain.Expense) error
	FindAll(ctx context.Context) ([]domain.Expense, error)
	FindByPallet(ctx context.Context, palletID uuid.UUID) ([]domain.Expense, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
