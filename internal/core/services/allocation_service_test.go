// internal/core/services/allocation_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
	"github.com/ammerola/palletflow/internal/core/services"
	"github.com/ammerola/palletflow/test/helpers"
	"github.com/ammerola/palletflow/test/mocks"
)

func shareFor(t *testing.T, updates []ports.AllocationUpdate, id uuid.UUID) *decimal.Decimal {
	t.Helper()
	for i := range updates {
		if updates[i].ItemID == id {
			return updates[i].AllocatedCost
		}
	}
	t.Fatalf("no update planned for item %s", id)
	return nil
}

func TestAllocationService_Reallocate(t *testing.T) {
	pallet := helpers.CreateTestPallet(func(p *domain.Pallet) {
		p.PurchaseCost = decimal.NewFromFloat(90)
		p.SalesTax = decimal.NewFromFloat(10)
	})
	memberA := *helpers.CreateTestItem(func(i *domain.Item) {
		i.PalletID = &pallet.ID
		i.Version = 3
	})
	memberB := *helpers.CreateTestItem(func(i *domain.Item) {
		i.PalletID = &pallet.ID
		i.Version = 7
	})

	tests := []struct {
		name          string
		setupMocks    func(*mocks.MockPalletRepository, *mocks.MockItemRepository)
		expectedError bool
		errorIs       error
	}{
		{
			name: "splits_total_cost_equally_with_version_guards",
			setupMocks: func(pm *mocks.MockPalletRepository, im *mocks.MockItemRepository) {
				pm.EXPECT().FindByID(gomock.Any(), pallet.ID).Return(pallet, nil)
				im.EXPECT().FindByPallet(gomock.Any(), pallet.ID).
					Return([]domain.Item{memberA, memberB}, nil)
				im.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
					DoAndReturn(func(ctx context.Context, updates []ports.AllocationUpdate) error {
						require.Len(t, updates, 2)
						expected := decimal.NewFromFloat(50)
						for _, u := range updates {
							require.NotNil(t, u.AllocatedCost)
							assert.True(t, u.AllocatedCost.Equal(expected),
								"expected %s, got %s", expected, u.AllocatedCost)
						}
						assert.Equal(t, int64(3), updates[0].ExpectedVersion)
						assert.Equal(t, int64(7), updates[1].ExpectedVersion)
						return nil
					})
			},
		},
		{
			name: "no_members_is_a_noop",
			setupMocks: func(pm *mocks.MockPalletRepository, im *mocks.MockItemRepository) {
				pm.EXPECT().FindByID(gomock.Any(), pallet.ID).Return(pallet, nil)
				im.EXPECT().FindByPallet(gomock.Any(), pallet.ID).Return(nil, nil)
			},
		},
		{
			name: "pallet_not_found",
			setupMocks: func(pm *mocks.MockPalletRepository, im *mocks.MockItemRepository) {
				pm.EXPECT().FindByID(gomock.Any(), pallet.ID).Return(nil, ports.ErrNotFound)
			},
			expectedError: true,
			errorIs:       ports.ErrNotFound,
		},
		{
			name: "stale_write_surfaces_to_caller",
			setupMocks: func(pm *mocks.MockPalletRepository, im *mocks.MockItemRepository) {
				pm.EXPECT().FindByID(gomock.Any(), pallet.ID).Return(pallet, nil)
				im.EXPECT().FindByPallet(gomock.Any(), pallet.ID).
					Return([]domain.Item{memberA, memberB}, nil)
				im.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
					Return(ports.ErrStaleWrite)
			},
			expectedError: true,
			errorIs:       ports.ErrStaleWrite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			palletRepo := mocks.NewMockPalletRepository(ctrl)
			itemRepo := mocks.NewMockItemRepository(ctrl)
			tt.setupMocks(palletRepo, itemRepo)

			service := services.NewAllocationService(palletRepo, itemRepo, helpers.TestLogger())
			err := service.Reallocate(context.Background(), pallet.ID)

			if tt.expectedError {
				require.Error(t, err)
				if tt.errorIs != nil {
					assert.True(t, errors.Is(err, tt.errorIs))
				}
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAllocationService_Move(t *testing.T) {
	source := helpers.CreateTestPallet(func(p *domain.Pallet) {
		p.PurchaseCost = decimal.NewFromFloat(100)
		p.SalesTax = decimal.Zero
	})
	dest := helpers.CreateTestPallet(func(p *domain.Pallet) {
		p.PurchaseCost = decimal.NewFromFloat(60)
		p.SalesTax = decimal.Zero
	})

	moved := helpers.CreateTestItem(func(i *domain.Item) {
		i.PalletID = &source.ID
		i.Version = 1
	})
	sibling := *helpers.CreateTestItem(func(i *domain.Item) {
		i.PalletID = &source.ID
		i.Version = 2
	})
	destMember := *helpers.CreateTestItem(func(i *domain.Item) {
		i.PalletID = &dest.ID
		i.Version = 4
	})

	t.Run("rebalances_both_pallets_in_one_batch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		palletRepo := mocks.NewMockPalletRepository(ctrl)
		itemRepo := mocks.NewMockItemRepository(ctrl)

		palletRepo.EXPECT().FindByID(gomock.Any(), source.ID).Return(source, nil)
		itemRepo.EXPECT().FindByPallet(gomock.Any(), source.ID).
			Return([]domain.Item{*moved, sibling}, nil)
		palletRepo.EXPECT().FindByID(gomock.Any(), dest.ID).Return(dest, nil)
		itemRepo.EXPECT().FindByPallet(gomock.Any(), dest.ID).
			Return([]domain.Item{destMember}, nil)

		itemRepo.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, updates []ports.AllocationUpdate) error {
				require.Len(t, updates, 3)

				// Source sibling absorbs the full source cost.
				assert.True(t, shareFor(t, updates, sibling.ID).Equal(decimal.NewFromFloat(100)))

				// Destination splits 60 across two members.
				assert.True(t, shareFor(t, updates, destMember.ID).Equal(decimal.NewFromFloat(30)))
				assert.True(t, shareFor(t, updates, moved.ID).Equal(decimal.NewFromFloat(30)))

				for _, u := range updates {
					if u.ItemID == moved.ID {
						require.True(t, u.SetPallet)
						require.NotNil(t, u.PalletID)
						assert.Equal(t, dest.ID, *u.PalletID)
					} else {
						assert.False(t, u.SetPallet)
					}
				}
				return nil
			})

		service := services.NewAllocationService(palletRepo, itemRepo, helpers.TestLogger())
		require.NoError(t, service.Move(context.Background(), moved, &dest.ID))
	})

	t.Run("detach_clears_share_and_pallet_link", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		palletRepo := mocks.NewMockPalletRepository(ctrl)
		itemRepo := mocks.NewMockItemRepository(ctrl)

		palletRepo.EXPECT().FindByID(gomock.Any(), source.ID).Return(source, nil)
		itemRepo.EXPECT().FindByPallet(gomock.Any(), source.ID).
			Return([]domain.Item{*moved, sibling}, nil)

		itemRepo.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, updates []ports.AllocationUpdate) error {
				require.Len(t, updates, 2)
				for _, u := range updates {
					if u.ItemID == moved.ID {
						assert.True(t, u.SetPallet)
						assert.Nil(t, u.PalletID)
						assert.Nil(t, u.AllocatedCost)
					}
				}
				return nil
			})

		service := services.NewAllocationService(palletRepo, itemRepo, helpers.TestLogger())
		require.NoError(t, service.Detach(context.Background(), moved))
	})
}

func TestAllocationService_ReleaseAll(t *testing.T) {
	palletID := uuid.New()
	memberA := *helpers.CreateTestItem(func(i *domain.Item) { i.PalletID = &palletID })
	memberB := *helpers.CreateTestItem(func(i *domain.Item) { i.PalletID = &palletID })

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	palletRepo := mocks.NewMockPalletRepository(ctrl)
	itemRepo := mocks.NewMockItemRepository(ctrl)

	itemRepo.EXPECT().FindByPallet(gomock.Any(), palletID).
		Return([]domain.Item{memberA, memberB}, nil)
	itemRepo.EXPECT().UpdateAllocations(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, updates []ports.AllocationUpdate) error {
			require.Len(t, updates, 2)
			for _, u := range updates {
				assert.True(t, u.SetPallet)
				assert.Nil(t, u.PalletID)
				assert.Nil(t, u.AllocatedCost)
			}
			return nil
		})

	service := services.NewAllocationService(palletRepo, itemRepo, helpers.TestLogger())
	require.NoError(t, service.ReleaseAll(context.Background(), palletID))
}
