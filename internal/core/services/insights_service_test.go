// internal/core/services/insights_service_test.go
package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/test/helpers"
	"github.com/ammerola/palletflow/test/mocks"
)

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

type insightsServiceMocks struct {
	pallets  *mocks.MockPalletRepository
	items    *mocks.MockItemRepository
	expenses *mocks.MockExpenseRepository
	cache    *mocks.MockCacheRepository
}

func newInsightsService(ctrl *gomock.Controller) (*InsightsService, *insightsServiceMocks) {
	m := &insightsServiceMocks{
		pallets:  mocks.NewMockPalletRepository(ctrl),
		items:    mocks.NewMockItemRepository(ctrl),
		expenses: mocks.NewMockExpenseRepository(ctrl),
		cache:    mocks.NewMockCacheRepository(ctrl),
	}
	svc := NewInsightsService(m.pallets, m.items, m.expenses, m.cache, 0, helpers.TestLogger())
	return svc, m
}

func expectSnapshot(m *insightsServiceMocks, pallets []domain.Pallet, items []domain.Item) {
	m.pallets.EXPECT().FindAll(gomock.Any()).Return(pallets, nil)
	m.items.EXPECT().FindAll(gomock.Any(), gomock.Any()).
		Return(items, int64(len(items)), nil)
}

func TestInsightsService_Insights(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newInsightsService(ctrl)
	pinned := time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)
	svc.now = func() time.Time { return pinned }

	items := []domain.Item{*helpers.CreateTestItem(func(i *domain.Item) {
		i.Status = domain.ItemUnprocessed
	})}
	expectSnapshot(m, nil, items)

	wantKey := fmt.Sprintf("dashboard:insights:%s", analytics.RotationCacheKey(pinned))
	m.cache.EXPECT().
		GetOrSet(gomock.Any(), wantKey, gomock.Any(), gomock.Any(), 3*time.Hour).
		DoAndReturn(func(ctx context.Context, key string, dest interface{},
			fetch func() (interface{}, error), ttl time.Duration) error {
			v, err := fetch()
			if err != nil {
				return err
			}
			*dest.(*[]domain.Insight) = v.([]domain.Insight)
			return nil
		})

	insights, err := svc.Insights(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(insights), 3)
}

func TestInsightsService_EmptyState(t *testing.T) {
	t.Run("new_user_gets_onboarding_copy", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newInsightsService(ctrl)
		expectSnapshot(m, nil, nil)

		state, err := svc.EmptyState(context.Background())
		require.NoError(t, err)
		require.NotNil(t, state)
		assert.NotEmpty(t, state.Title)
	})

	t.Run("established_user_gets_nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newInsightsService(ctrl)

		sold := make([]domain.Item, 10)
		for i := range sold {
			sold[i] = *helpers.CreateTestItem(func(it *domain.Item) {
				it.Status = domain.ItemSold
			})
		}
		expectSnapshot(m, nil, sold)

		state, err := svc.EmptyState(context.Background())
		require.NoError(t, err)
		assert.Nil(t, state)
	})
}

func TestInsightsService_BuildSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newInsightsService(ctrl)
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.Local)

	pallet := helpers.CreateTestPallet(func(p *domain.Pallet) {
		p.PurchaseCost = decimalFromFloat(90)
		p.SalesTax = decimalFromFloat(10)
		p.PurchaseDate = now.Add(-time.Hour)
	})

	alloc := decimalFromFloat(25)
	sale := decimalFromFloat(100)
	fee := decimalFromFloat(10)
	platform := domain.PlatformEBay
	soldAt := now.AddDate(0, 0, -1)

	soldItem := *helpers.CreateTestItem(func(i *domain.Item) {
		i.PalletID = &pallet.ID
		i.AllocatedCost = &alloc
	})
	soldItem.MarkSold(sale, soldAt, &platform, &fee, nil)

	listedItem := *helpers.CreateTestItem(func(i *domain.Item) {
		i.Status = domain.ItemListed
	})

	expectSnapshot(m, []domain.Pallet{*pallet}, []domain.Item{soldItem, listedItem})
	m.expenses.EXPECT().FindAll(gomock.Any()).Return(nil, nil)

	summary, err := svc.buildSummary(context.Background(), analytics.PeriodWeek, now)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TotalPallets)
	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, 1, summary.TotalListed)
	assert.Equal(t, 1, summary.TotalSold)
	assert.True(t, summary.TotalInvested.Equal(decimalFromFloat(100)), "invested %s", summary.TotalInvested)
	assert.True(t, summary.TotalRevenue.Equal(decimalFromFloat(100)))
	// 100 - 25 - 10
	assert.True(t, summary.TotalProfit.Equal(decimalFromFloat(65)), "profit %s", summary.TotalProfit)
	// ROI on the one sale: (100-25)/25 = 300%
	assert.True(t, summary.AverageROI.Equal(decimalFromFloat(300)), "roi %s", summary.AverageROI)
}
