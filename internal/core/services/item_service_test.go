// internal/core/services/item_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
	"github.com/ammerola/palletflow/internal/core/services"
	"github.com/ammerola/palletflow/test/helpers"
	"github.com/ammerola/palletflow/test/mocks"
)

type itemServiceMocks struct {
	items   *mocks.MockItemRepository
	pallets *mocks.MockPalletRepository
	cache   *mocks.MockCacheRepository
}

func newItemService(ctrl *gomock.Controller, limits services.TierLimits) (*services.ItemService, *itemServiceMocks) {
	m := &itemServiceMocks{
		items:   mocks.NewMockItemRepository(ctrl),
		pallets: mocks.NewMockPalletRepository(ctrl),
		cache:   mocks.NewMockCacheRepository(ctrl),
	}
	logger := helpers.TestLogger()
	alloc := services.NewAllocationService(m.pallets, m.items, logger)
	limiter := services.NewTierLimiter(limits, m.pallets, m.items)
	svc := services.NewItemService(m.items, m.pallets, alloc, limiter,
		analytics.DefaultFeeSchedule(), m.cache, logger)
	return svc, m
}

func expectCacheInvalidation(m *itemServiceMocks) {
	m.cache.EXPECT().DeletePattern(gomock.Any(), "dashboard:*").Return(nil)
}

func TestItemService_CreateItem(t *testing.T) {
	tests := []struct {
		name          string
		item          *domain.Item
		limits        services.TierLimits
		setupMocks    func(*itemServiceMocks)
		expectedError bool
		errorContains string
		errorIs       error
	}{
		{
			name: "saves_individual_item",
			item: helpers.CreateTestItem(),
			setupMocks: func(m *itemServiceMocks) {
				m.items.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				expectCacheInvalidation(m)
			},
		},
		{
			name:          "validation_fails_for_missing_name",
			item:          helpers.CreateTestItem(func(i *domain.Item) { i.Name = "" }),
			setupMocks:    func(m *itemServiceMocks) {},
			expectedError: true,
			errorContains: "name is required",
		},
		{
			name:   "tier_limit_blocks_create",
			item:   helpers.CreateTestItem(),
			limits: services.TierLimits{MaxItems: 5},
			setupMocks: func(m *itemServiceMocks) {
				m.items.EXPECT().Count(gomock.Any()).Return(int64(5), nil)
			},
			expectedError: true,
			errorIs:       services.ErrLimitExceeded,
		},
		{
			name: "repository_save_error",
			item: helpers.CreateTestItem(),
			setupMocks: func(m *itemServiceMocks) {
				m.items.EXPECT().Save(gomock.Any(), gomock.Any()).
					Return(errors.New("database connection failed"))
			},
			expectedError: true,
			errorContains: "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, m := newItemService(ctrl, tt.limits)
			tt.setupMocks(m)

			err := svc.CreateItem(context.Background(), tt.item)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				if tt.errorIs != nil {
					assert.True(t, errors.Is(err, tt.errorIs))
				}
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("pallet_item_triggers_reallocation_and_status_advance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})

		pallet := helpers.CreateTestPallet(func(p *domain.Pallet) {
			p.Status = domain.PalletUnprocessed
			p.PurchaseCost = decimal.NewFromFloat(80)
			p.SalesTax = decimal.Zero
		})
		item := helpers.CreateTestItem(func(i *domain.Item) { i.PalletID = &pallet.ID })

		m.items.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

		// Reallocation across the new single-member pallet.
		m.pallets.EXPECT().FindByID(gomock.Any(), pallet.ID).Return(pallet, nil).Times(2)
		m.items.EXPECT().FindByPallet(gomock.Any(), pallet.ID).
			Return([]domain.Item{*item}, nil)
		m.items.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, updates []ports.AllocationUpdate) error {
				require.Len(t, updates, 1)
				assert.True(t, updates[0].AllocatedCost.Equal(decimal.NewFromFloat(80)))
				return nil
			})

		// First item moves the pallet into processing.
		m.pallets.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, p *domain.Pallet) error {
				assert.Equal(t, domain.PalletProcessing, p.Status)
				return nil
			})
		expectCacheInvalidation(m)

		require.NoError(t, svc.CreateItem(context.Background(), item))
	})
}

func TestItemService_MarkItemSold(t *testing.T) {
	platform := domain.PlatformEBay
	saleDate := time.Date(2026, 6, 1, 12, 0, 0, 0, time.Local)

	t.Run("computes_platform_fee_from_schedule", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})
		item := helpers.CreateTestItem(func(i *domain.Item) { i.Status = domain.ItemListed })

		m.items.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)
		m.items.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, it *domain.Item) error {
				assert.Equal(t, domain.ItemSold, it.Status)
				require.NotNil(t, it.SalePrice)
				assert.True(t, it.SalePrice.Equal(decimal.NewFromFloat(100)))
				// eBay: 13.25% + $0.30
				require.NotNil(t, it.PlatformFee)
				assert.True(t, it.PlatformFee.Equal(decimal.NewFromFloat(13.55)),
					"got fee %s", it.PlatformFee)
				return nil
			})
		expectCacheInvalidation(m)

		err := svc.MarkItemSold(context.Background(), item.ID, ports.SaleTerms{
			SalePrice: decimal.NewFromFloat(100),
			SaleDate:  saleDate,
			Platform:  &platform,
		})
		require.NoError(t, err)
	})

	t.Run("no_platform_means_no_fee", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})
		item := helpers.CreateTestItem(func(i *domain.Item) { i.Status = domain.ItemListed })

		m.items.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)
		m.items.EXPECT().Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, it *domain.Item) error {
				assert.Nil(t, it.PlatformFee)
				return nil
			})
		expectCacheInvalidation(m)

		err := svc.MarkItemSold(context.Background(), item.ID, ports.SaleTerms{
			SalePrice: decimal.NewFromFloat(40),
			SaleDate:  saleDate,
		})
		require.NoError(t, err)
	})

	t.Run("rejects_negative_sale_price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})
		item := helpers.CreateTestItem()

		m.items.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)

		err := svc.MarkItemSold(context.Background(), item.ID, ports.SaleTerms{
			SalePrice: decimal.NewFromFloat(-1),
			SaleDate:  saleDate,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sale_price cannot be negative")
	})
}

func TestItemService_MoveItem(t *testing.T) {
	t.Run("same_pallet_is_a_noop", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})
		pallet := helpers.CreateTestPallet()
		item := helpers.CreateTestItem(func(i *domain.Item) { i.PalletID = &pallet.ID })

		m.items.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)

		require.NoError(t, svc.MoveItem(context.Background(), item.ID, &pallet.ID))
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	t.Run("reallocates_remaining_members", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})

		pallet := helpers.CreateTestPallet(func(p *domain.Pallet) {
			p.PurchaseCost = decimal.NewFromFloat(50)
			p.SalesTax = decimal.Zero
		})
		survivor := *helpers.CreateTestItem(func(i *domain.Item) { i.PalletID = &pallet.ID })
		item := helpers.CreateTestItem(func(i *domain.Item) { i.PalletID = &pallet.ID })

		m.items.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)
		m.items.EXPECT().SoftDelete(gomock.Any(), item.ID).Return(nil)
		m.pallets.EXPECT().FindByID(gomock.Any(), pallet.ID).Return(pallet, nil)
		m.items.EXPECT().FindByPallet(gomock.Any(), pallet.ID).
			Return([]domain.Item{survivor}, nil)
		m.items.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, updates []ports.AllocationUpdate) error {
				require.Len(t, updates, 1)
				assert.True(t, updates[0].AllocatedCost.Equal(decimal.NewFromFloat(50)))
				return nil
			})
		expectCacheInvalidation(m)

		require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	})

	t.Run("individual_item_skips_reallocation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, m := newItemService(ctrl, services.TierLimits{})
		item := helpers.CreateTestItem()

		m.items.EXPECT().FindByID(gomock.Any(), item.ID).Return(item, nil)
		m.items.EXPECT().SoftDelete(gomock.Any(), item.ID).Return(nil)
		expectCacheInvalidation(m)

		require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	})
}

func TestItemService_ListItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newItemService(ctrl, services.TierLimits{})
	items := []domain.Item{*helpers.CreateTestItem()}

	m.items.EXPECT().
		FindAll(gomock.Any(), ports.ItemListParams{Page: 1, PageSize: 50}).
		Return(items, int64(101), nil)

	result, err := svc.ListItems(context.Background(), ports.ItemListParams{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 50, result.PageSize)
	assert.Equal(t, int64(101), result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
}
