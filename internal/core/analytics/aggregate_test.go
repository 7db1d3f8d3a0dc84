// internal/core/analytics/aggregate_test.go
package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
)

func soldItem(palletID *uuid.UUID, alloc, sale float64, soldAt time.Time) domain.Item {
	it := domain.Item{
		ID:       uuid.New(),
		PalletID: palletID,
		Name:     "sold item",
		Quantity: 1,
		Status:   domain.ItemSold,
		SalePrice: decPtr(sale),
		SaleDate:  &soldAt,
	}
	if palletID != nil {
		it.AllocatedCost = decPtr(alloc)
	} else {
		it.PurchaseCost = decPtr(alloc)
	}
	return it
}

func TestBestPallet(t *testing.T) {
	now := time.Now()

	t.Run("lot_roi_scenario", func(t *testing.T) {
		// purchase_cost=20, two sold items allocated 10 each, sold for 30
		// each: ROI = (60-20)/20 = 200%.
		pallet := domain.Pallet{ID: uuid.New(), Name: "Pallet A", PurchaseCost: dec(20)}
		items := []domain.Item{
			soldItem(&pallet.ID, 10, 30, now),
			soldItem(&pallet.ID, 10, 30, now),
		}

		best := analytics.BestPallet([]domain.Pallet{pallet}, items)
		require.NotNil(t, best)
		assert.Equal(t, "Pallet A", best.Key)
		assert.True(t, best.ROI.Equal(dec(200)), "got %s", best.ROI)
	})

	t.Run("single_sold_item_never_ranks", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "Solo", PurchaseCost: dec(1)}
		items := []domain.Item{soldItem(&pallet.ID, 1, 1000, now)}

		assert.Nil(t, analytics.BestPallet([]domain.Pallet{pallet}, items))
	})

	t.Run("negative_best_roi_is_suppressed", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "Loser", PurchaseCost: dec(100)}
		items := []domain.Item{
			soldItem(&pallet.ID, 50, 10, now),
			soldItem(&pallet.ID, 50, 10, now),
		}

		assert.Nil(t, analytics.BestPallet([]domain.Pallet{pallet}, items))
	})

	t.Run("fees_and_shipping_count_as_cost", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "Fees", PurchaseCost: dec(20)}
		items := []domain.Item{
			soldItem(&pallet.ID, 10, 30, now),
			soldItem(&pallet.ID, 10, 30, now),
		}
		items[0].PlatformFee = decPtr(5)
		items[1].ShippingCost = decPtr(5)

		best := analytics.BestPallet([]domain.Pallet{pallet}, items)
		require.NotNil(t, best)
		// (60 - 30) / 30 = 100%
		assert.True(t, best.ROI.Equal(dec(100)), "got %s", best.ROI)
	})

	t.Run("ties_keep_first_encounter", func(t *testing.T) {
		p1 := domain.Pallet{ID: uuid.New(), Name: "First", PurchaseCost: dec(20)}
		p2 := domain.Pallet{ID: uuid.New(), Name: "Second", PurchaseCost: dec(20)}
		items := []domain.Item{
			soldItem(&p1.ID, 10, 30, now),
			soldItem(&p1.ID, 10, 30, now),
			soldItem(&p2.ID, 10, 30, now),
			soldItem(&p2.ID, 10, 30, now),
		}

		best := analytics.BestPallet([]domain.Pallet{p1, p2}, items)
		require.NotNil(t, best)
		assert.Equal(t, "First", best.Key)
	})
}

func TestBestSupplier(t *testing.T) {
	now := time.Now()

	t.Run("needs_three_sold_items", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "A", Supplier: "GoodSupplier", PurchaseCost: dec(10)}
		items := []domain.Item{
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
		}

		assert.Nil(t, analytics.BestSupplier([]domain.Pallet{pallet}, items))

		items = append(items, soldItem(&pallet.ID, 5, 50, now))
		best := analytics.BestSupplier([]domain.Pallet{pallet}, items)
		require.NotNil(t, best)
		assert.Equal(t, "GoodSupplier", best.Key)
	})

	t.Run("groups_across_pallets", func(t *testing.T) {
		p1 := domain.Pallet{ID: uuid.New(), Name: "A", Supplier: "Acme", PurchaseCost: dec(10)}
		p2 := domain.Pallet{ID: uuid.New(), Name: "B", Supplier: "Acme", PurchaseCost: dec(10)}
		items := []domain.Item{
			soldItem(&p1.ID, 5, 20, now),
			soldItem(&p1.ID, 5, 20, now),
			soldItem(&p2.ID, 5, 20, now),
		}

		best := analytics.BestSupplier([]domain.Pallet{p1, p2}, items)
		require.NotNil(t, best)
		assert.Equal(t, "Acme", best.Key)
		assert.Equal(t, 3, best.SoldCount)
	})

	t.Run("unnamed_suppliers_are_skipped", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "A", PurchaseCost: dec(10)}
		items := []domain.Item{
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
		}

		assert.Nil(t, analytics.BestSupplier([]domain.Pallet{pallet}, items))
	})
}

func TestBestSourceType(t *testing.T) {
	now := time.Now()

	t.Run("unknown_bucket_is_excluded", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "A", PurchaseCost: dec(10)}
		items := []domain.Item{
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
		}

		assert.Nil(t, analytics.BestSourceType([]domain.Pallet{pallet}, items))
	})

	t.Run("named_source_wins", func(t *testing.T) {
		pallet := domain.Pallet{ID: uuid.New(), Name: "A", SourceType: "Amazon Returns", PurchaseCost: dec(10)}
		items := []domain.Item{
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
			soldItem(&pallet.ID, 5, 50, now),
		}

		best := analytics.BestSourceType([]domain.Pallet{pallet}, items)
		require.NotNil(t, best)
		assert.Equal(t, "Amazon Returns", best.Key)
	})
}

func TestBestIndividualItem(t *testing.T) {
	now := time.Now()

	t.Run("needs_roi_above_threshold", func(t *testing.T) {
		modest := soldItem(nil, 100, 115, now) // 15% ROI
		it, _ := analytics.BestIndividualItem([]domain.Item{modest})
		assert.Nil(t, it)

		exciting := soldItem(nil, 100, 150, now) // 50% ROI
		it, roi := analytics.BestIndividualItem([]domain.Item{modest, exciting})
		require.NotNil(t, it)
		assert.Equal(t, exciting.ID, it.ID)
		assert.True(t, roi.Equal(dec(50)), "got %s", roi)
	})

	t.Run("requires_positive_purchase_cost", func(t *testing.T) {
		free := soldItem(nil, 0, 500, now)
		it, _ := analytics.BestIndividualItem([]domain.Item{free})
		assert.Nil(t, it)
	})

	t.Run("pallet_items_are_excluded", func(t *testing.T) {
		palletID := uuid.New()
		linked := soldItem(&palletID, 10, 100, now)
		it, _ := analytics.BestIndividualItem([]domain.Item{linked})
		assert.Nil(t, it)
	})
}

func TestFlipMetrics(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)

	flip := func(listedDaysAgo, soldDaysAgo int) domain.Item {
		listed := now.AddDate(0, 0, -listedDaysAgo)
		sold := now.AddDate(0, 0, -soldDaysAgo)
		it := soldItem(nil, 10, 30, sold)
		it.ListingDate = &listed
		return it
	}

	t.Run("fastest_flip_within_cutoff", func(t *testing.T) {
		items := []domain.Item{
			flip(10, 5), // 5 days to sell, too slow for fastest
			flip(7, 5),  // 2 days
		}
		it, days := analytics.FastestFlip(items, now)
		require.NotNil(t, it)
		assert.Equal(t, 2, days)
	})

	t.Run("old_sales_fall_out_of_window", func(t *testing.T) {
		items := []domain.Item{flip(50, 48)} // sold 48 days ago, 2-day flip
		it, _ := analytics.FastestFlip(items, now)
		assert.Nil(t, it)
		assert.Equal(t, 0, analytics.QuickFlipCount(items, now))
	})

	t.Run("quick_flip_count", func(t *testing.T) {
		items := []domain.Item{
			flip(10, 5),  // 5 days, quick
			flip(20, 12), // 8 days, not quick
			flip(9, 2),   // 7 days, quick
		}
		assert.Equal(t, 2, analytics.QuickFlipCount(items, now))
	})
}
