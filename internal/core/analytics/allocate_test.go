// internal/core/analytics/allocate_test.go
package analytics_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
)

func makePalletWithMembers(totalCost float64, count int) (*domain.Pallet, []domain.Item) {
	pallet := &domain.Pallet{
		ID:           uuid.New(),
		Name:         "Test Pallet",
		PurchaseCost: dec(totalCost),
	}
	members := make([]domain.Item, count)
	for i := range members {
		members[i] = domain.Item{ID: uuid.New(), PalletID: &pallet.ID, Name: "member", Quantity: 1}
	}
	return pallet, members
}

func TestComputeAllocatedCost(t *testing.T) {
	t.Run("equal_split_across_members", func(t *testing.T) {
		pallet, members := makePalletWithMembers(100, 4)
		alloc := analytics.ComputeAllocatedCost(pallet, members)

		require.Len(t, alloc, 4)
		for _, share := range alloc {
			assert.True(t, share.Equal(dec(25)), "got %s", share)
		}
	})

	t.Run("sales_tax_included_in_total", func(t *testing.T) {
		pallet, members := makePalletWithMembers(90, 2)
		pallet.SalesTax = dec(10)

		alloc := analytics.ComputeAllocatedCost(pallet, members)
		for _, share := range alloc {
			assert.True(t, share.Equal(dec(50)), "got %s", share)
		}
	})

	t.Run("empty_membership_is_a_noop", func(t *testing.T) {
		pallet, _ := makePalletWithMembers(100, 0)
		alloc := analytics.ComputeAllocatedCost(pallet, nil)
		assert.Empty(t, alloc)
	})

	// The sum of allocated costs must reconstruct the pallet's total cost
	// within rounding epsilon, for any membership count.
	t.Run("allocation_conservation", func(t *testing.T) {
		epsilon := decimal.New(1, -2) // one cent

		for _, count := range []int{1, 2, 3, 7, 10, 33} {
			pallet, members := makePalletWithMembers(149.99, count)
			alloc := analytics.ComputeAllocatedCost(pallet, members)

			sum := decimal.Zero
			for _, share := range alloc {
				sum = sum.Add(share)
			}
			diff := sum.Sub(pallet.TotalCost()).Abs()
			assert.True(t, diff.LessThanOrEqual(epsilon),
				"count=%d sum=%s total=%s", count, sum, pallet.TotalCost())
		}
	})

	// Adding then removing an item must return the remaining siblings to
	// their prior allocation.
	t.Run("allocation_reentrancy", func(t *testing.T) {
		pallet, members := makePalletWithMembers(120, 3)

		before := analytics.ComputeAllocatedCost(pallet, members)

		extra := domain.Item{ID: uuid.New(), PalletID: &pallet.ID, Name: "extra", Quantity: 1}
		during := analytics.ComputeAllocatedCost(pallet, append(members, extra))
		assert.True(t, during[members[0].ID].Equal(dec(30)))

		after := analytics.ComputeAllocatedCost(pallet, members)
		for id, share := range before {
			assert.True(t, share.Equal(after[id]), "member %s drifted: %s -> %s", id, share, after[id])
		}
	})
}

func TestAllocatedShare(t *testing.T) {
	t.Run("single_member_carries_full_cost", func(t *testing.T) {
		got := analytics.AllocatedShare(dec(75.50), 1)
		assert.True(t, got.Equal(dec(75.50)))
	})

	t.Run("rounding_is_bounded", func(t *testing.T) {
		got := analytics.AllocatedShare(dec(100), 3)
		assert.True(t, got.Equal(decimal.RequireFromString("33.3333")), "got %s", got)
	})
}
