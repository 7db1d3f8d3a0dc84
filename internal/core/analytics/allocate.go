// internal/core/analytics/allocate.go
package analytics

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
)

// allocationPlaces bounds per-item allocated cost precision so repeated
// reallocation cannot accumulate unbounded digits.
const allocationPlaces = 4

// AllocatedShare returns the equal per-member share of a pallet's total
// cost across count members. count must be >= 1; callers always include
// the item being placed, so division by zero is impossible by
// construction.
func AllocatedShare(totalCost decimal.Decimal, count int) decimal.Decimal {
	return totalCost.DivRound(decimal.NewFromInt(int64(count)), allocationPlaces)
}

// ComputeAllocatedCost returns the allocated cost each current member of
// the pallet should carry: the pallet's total cost split equally. An
// empty member list yields an empty map.
func ComputeAllocatedCost(pallet *domain.Pallet, members []domain.Item) map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(members))
	if len(members) == 0 {
		return out
	}

	share := AllocatedShare(pallet.TotalCost(), len(members))
	for i := range members {
		out[members[i].ID] = share
	}
	return out
}
