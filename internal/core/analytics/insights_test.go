// internal/core/analytics/insights_test.go
package analytics_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
)

func findInsight(insights []domain.Insight, id string) *domain.Insight {
	for i := range insights {
		if insights[i].ID == id {
			return &insights[i]
		}
	}
	return nil
}

func unprocessedItems(count int) []domain.Item {
	items := make([]domain.Item, count)
	for i := range items {
		items[i] = domain.Item{ID: uuid.New(), Name: "boxed item", Quantity: 1, Status: domain.ItemUnprocessed}
	}
	return items
}

func TestGenerateInsights_FirstSale(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	sold := now.AddDate(0, 0, -1)

	items := []domain.Item{
		{
			ID: uuid.New(), Name: "Lamp", Quantity: 1, Status: domain.ItemSold,
			SalePrice: decPtr(50), PurchaseCost: decPtr(20), SaleDate: &sold,
		},
	}

	insights := analytics.GenerateInsights(analytics.InsightParams{Items: items}, now)

	first := findInsight(insights, analytics.InsightFirstSale)
	require.NotNil(t, first)
	assert.Contains(t, first.Message, "$30.00")
	assert.Equal(t, 100, first.Priority)

	t.Run("does_not_fire_after_second_sale", func(t *testing.T) {
		items = append(items, domain.Item{
			ID: uuid.New(), Name: "Chair", Quantity: 1, Status: domain.ItemSold,
			SalePrice: decPtr(10), SaleDate: &sold,
		})
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: items}, now)
		assert.Nil(t, findInsight(insights, analytics.InsightFirstSale))
	})
}

func TestGenerateInsights_Milestones(t *testing.T) {
	now := time.Now()
	sold := now.AddDate(0, 0, -40) // outside the flip window, keeps the pool quiet

	soldItems := func(count int) []domain.Item {
		items := make([]domain.Item, count)
		for i := range items {
			items[i] = domain.Item{
				ID: uuid.New(), Name: "sold", Quantity: 1, Status: domain.ItemSold,
				SalePrice: decPtr(10), SaleDate: &sold,
			}
		}
		return items
	}

	tests := []struct {
		soldCount int
		fires     bool
		milestone string
	}{
		{9, false, ""},
		{10, true, "10"},
		{14, true, "10"},
		{15, false, ""},
		{25, true, "25"},
		{52, true, "50"},
		{103, true, "100"},
	}

	for _, tt := range tests {
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: soldItems(tt.soldCount)}, now)
		m := findInsight(insights, analytics.InsightMilestone)
		if !tt.fires {
			assert.Nil(t, m, "sold=%d", tt.soldCount)
			continue
		}
		require.NotNil(t, m, "sold=%d", tt.soldCount)
		assert.Contains(t, m.Title, tt.milestone, "sold=%d", tt.soldCount)
	}
}

func TestGenerateInsights_StaleInventory(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)

	listedItem := func(daysAgo int) domain.Item {
		listed := now.AddDate(0, 0, -daysAgo)
		return domain.Item{
			ID: uuid.New(), Name: "listed", Quantity: 1, Status: domain.ItemListed,
			ListingDate: &listed,
		}
	}

	t.Run("fires_at_default_threshold", func(t *testing.T) {
		items := []domain.Item{listedItem(45), listedItem(31), listedItem(5)}
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: items}, now)

		stale := findInsight(insights, analytics.InsightStale)
		require.NotNil(t, stale)
		assert.Contains(t, stale.Message, "2 items")
		assert.Contains(t, stale.Message, "30")
	})

	t.Run("respects_custom_threshold", func(t *testing.T) {
		items := []domain.Item{listedItem(45)}
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: items, StaleThresholdDays: 60}, now)
		assert.Nil(t, findInsight(insights, analytics.InsightStale))
	})

	t.Run("fresh_listings_do_not_fire", func(t *testing.T) {
		items := []domain.Item{listedItem(5)}
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: items}, now)
		assert.Nil(t, findInsight(insights, analytics.InsightStale))
	})
}

func TestGenerateInsights_BestPalletMessage(t *testing.T) {
	now := time.Now()
	sold := now.AddDate(0, 0, -40)

	pallet := domain.Pallet{ID: uuid.New(), Name: "Pallet A", PurchaseCost: dec(20)}
	items := []domain.Item{
		soldItem(&pallet.ID, 10, 30, sold),
		soldItem(&pallet.ID, 10, 30, sold),
	}

	insights := analytics.GenerateInsights(analytics.InsightParams{
		Pallets: []domain.Pallet{pallet},
		Items:   items,
	}, now)

	best := findInsight(insights, analytics.InsightBestPallet)
	require.NotNil(t, best)
	assert.Contains(t, best.Message, "200%")
	assert.Contains(t, best.Message, "Pallet A")
}

func TestGenerateInsights_UnlistedItems(t *testing.T) {
	now := time.Now()

	t.Run("fires_at_five_or_more", func(t *testing.T) {
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: unprocessedItems(6)}, now)
		unlisted := findInsight(insights, analytics.InsightUnlistedItems)
		require.NotNil(t, unlisted)
		assert.Contains(t, unlisted.Message, "6 items")
	})

	t.Run("silent_below_five", func(t *testing.T) {
		insights := analytics.GenerateInsights(analytics.InsightParams{Items: unprocessedItems(4)}, now)
		assert.Nil(t, findInsight(insights, analytics.InsightUnlistedItems))
	})
}

func TestGenerateInsights_CapAndOrdering(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	sold := now.AddDate(0, 0, -2)
	listedLongAgo := now.AddDate(0, 0, -60)

	// A pathological snapshot designed to trigger every rule at once.
	pallet := domain.Pallet{ID: uuid.New(), Name: "Everything", Supplier: "Acme", SourceType: "Storage Units", PurchaseCost: dec(30)}
	var items []domain.Item
	for i := 0; i < 10; i++ {
		it := soldItem(&pallet.ID, 3, 30, sold)
		it.ListingDate = &sold
		items = append(items, it)
	}
	star := soldItem(nil, 10, 100, sold)
	star.ListingDate = &sold
	items = append(items, star)
	items = append(items, domain.Item{
		ID: uuid.New(), Name: "stale", Quantity: 1, Status: domain.ItemListed,
		ListingDate: &listedLongAgo,
	})
	items = append(items, unprocessedItems(7)...)

	insights := analytics.GenerateInsights(analytics.InsightParams{
		Pallets: []domain.Pallet{pallet},
		Items:   items,
	}, now)

	assert.LessOrEqual(t, len(insights), 3)

	for i := 1; i < len(insights); i++ {
		assert.GreaterOrEqual(t, insights[i-1].Priority, insights[i].Priority,
			"output must be sorted by priority descending")
	}

	// Milestone (95) and stale (90) are always-shown and outrank every
	// rotating candidate.
	assert.NotNil(t, findInsight(insights, analytics.InsightMilestone))
	assert.NotNil(t, findInsight(insights, analytics.InsightStale))
}

func TestGenerateInsights_Deterministic(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)
	sold := now.AddDate(0, 0, -2)

	pallet := domain.Pallet{ID: uuid.New(), Name: "P", Supplier: "Acme", SourceType: "Thrift", PurchaseCost: dec(10)}
	var items []domain.Item
	for i := 0; i < 4; i++ {
		it := soldItem(&pallet.ID, 2.5, 20, sold)
		it.ListingDate = &sold
		items = append(items, it)
	}
	items = append(items, unprocessedItems(5)...)

	params := analytics.InsightParams{Pallets: []domain.Pallet{pallet}, Items: items}

	a := analytics.GenerateInsights(params, now)
	b := analytics.GenerateInsights(params, now)
	require.Equal(t, len(a), len(b))
	for i := range a {
		assert.Equal(t, a[i].ID, b[i].ID, "same timestamp must produce the same rotation")
	}

	// Within the same 3-hour bucket the order holds too.
	c := analytics.GenerateInsights(params, now.Add(10*time.Minute))
	ids := func(list []domain.Insight) string {
		parts := make([]string, len(list))
		for i, ins := range list {
			parts[i] = ins.ID
		}
		return strings.Join(parts, ",")
	}
	assert.Equal(t, ids(a), ids(c))
}

func TestGetUserStage(t *testing.T) {
	soldItems := func(count int) []domain.Item {
		items := make([]domain.Item, count)
		for i := range items {
			items[i] = domain.Item{ID: uuid.New(), Status: domain.ItemSold}
		}
		return items
	}

	tests := []struct {
		name     string
		pallets  []domain.Pallet
		items    []domain.Item
		expected analytics.UserStage
	}{
		{"zero_data_is_new_user", nil, nil, analytics.StageNewUser},
		{"a_pallet_means_inventory", []domain.Pallet{{ID: uuid.New()}}, nil, analytics.StageHasInventory},
		{"an_unlisted_item_means_inventory", nil, unprocessedItems(1), analytics.StageHasInventory},
		{
			"a_listing_advances_the_stage", nil,
			[]domain.Item{{ID: uuid.New(), Status: domain.ItemListed}},
			analytics.StageHasListings,
		},
		{"one_sale_is_making_sales", nil, soldItems(1), analytics.StageMakingSales},
		{"nine_sales_is_still_making_sales", nil, soldItems(9), analytics.StageMakingSales},
		{"ten_sales_is_established", nil, soldItems(10), analytics.StageEstablished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, analytics.GetUserStage(tt.pallets, tt.items))
		})
	}
}

func TestGetEmptyStateContent(t *testing.T) {
	for _, stage := range []analytics.UserStage{
		analytics.StageNewUser,
		analytics.StageHasInventory,
		analytics.StageHasListings,
		analytics.StageMakingSales,
		analytics.StageEstablished,
	} {
		content := analytics.GetEmptyStateContent(stage)
		assert.NotEmpty(t, content.Title, "stage %s", stage)
		assert.NotEmpty(t, content.Message, "stage %s", stage)
	}
}
