package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
	"github.com/ammerola/palletflow/internal/handlers"
	"github.com/ammerola/palletflow/test/helpers"
	"github.com/ammerola/palletflow/test/mocks"
)

func newItemMux(service ports.ItemService) *http.ServeMux {
	handler := handlers.NewItemHandler(service, helpers.TestLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/items", handler.ListItems)
	mux.HandleFunc("GET /api/v1/items/{id}", handler.GetItem)
	mux.HandleFunc("POST /api/v1/items", handler.CreateItem)
	mux.HandleFunc("PUT /api/v1/items/{id}", handler.UpdateItem)
	mux.HandleFunc("DELETE /api/v1/items/{id}", handler.DeleteItem)
	mux.HandleFunc("POST /api/v1/items/{id}/sold", handler.MarkItemSold)
	mux.HandleFunc("POST /api/v1/items/{id}/move", handler.MoveItem)
	return mux
}

func TestItemHandler_CreateItem(t *testing.T) {
	palletID := uuid.New()

	tests := []struct {
		name           string
		body           string
		setupMock      func(service *mocks.MockItemService)
		expectedStatus int
	}{
		{
			name: "creates_pallet_member",
			body: fmt.Sprintf(`{"name":"Air Fryer","pallet_id":"%s"}`, palletID),
			setupMock: func(service *mocks.MockItemService) {
				service.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, item *domain.Item) error {
						assert.Equal(t, "Air Fryer", item.Name)
						require.NotNil(t, item.PalletID)
						assert.Equal(t, palletID, *item.PalletID)
						assert.Equal(t, 1, item.Quantity)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "listing_date_sets_listed_status",
			body: `{"name":"Blender","listing_date":"2026-07-01T00:00:00Z","listing_price":"29.99"}`,
			setupMock: func(service *mocks.MockItemService) {
				service.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ interface{}, item *domain.Item) error {
						assert.Equal(t, domain.ItemListed, item.Status)
						return nil
					})
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing_name",
			body:           `{"quantity":2}`,
			setupMock:      func(service *mocks.MockItemService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_pallet",
			body: fmt.Sprintf(`{"name":"Orphan","pallet_id":"%s"}`, palletID),
			setupMock: func(service *mocks.MockItemService) {
				service.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					Return(fmt.Errorf("failed to load pallet: %w", ports.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockItemService(ctrl)
			mux := newItemMux(service)

			tt.setupMock(service)

			req := httptest.NewRequest("POST", "/api/v1/items", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestItemHandler_ListItems_ParsesFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockItemService(ctrl)
	mux := newItemMux(service)

	palletID := uuid.New()
	service.EXPECT().
		ListItems(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, params ports.ItemListParams) (*ports.ItemListResult, error) {
			assert.Equal(t, "sold", params.Status)
			assert.Equal(t, "speaker", params.Search)
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, 100, params.PageSize, "limit should cap at 100")
			require.NotNil(t, params.PalletID)
			assert.Equal(t, palletID, *params.PalletID)
			return &ports.ItemListResult{Page: 2, PageSize: 100}, nil
		})

	url := fmt.Sprintf("/api/v1/items?status=sold&search=speaker&page=2&limit=500&pallet_id=%s", palletID)
	req := httptest.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestItemHandler_MarkItemSold(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(service *mocks.MockItemService, id uuid.UUID)
		expectedStatus int
	}{
		{
			name: "records_sale",
			body: `{"sale_price":"58.00","platform":"ebay","shipping_cost":"9.40"}`,
			setupMock: func(service *mocks.MockItemService, id uuid.UUID) {
				service.EXPECT().
					MarkItemSold(gomock.Any(), id, gomock.Any()).
					DoAndReturn(func(_ interface{}, _ uuid.UUID, terms ports.SaleTerms) error {
						assert.True(t, terms.SalePrice.Equal(decimal.NewFromFloat(58)))
						require.NotNil(t, terms.Platform)
						assert.Equal(t, domain.PlatformEBay, *terms.Platform)
						assert.False(t, terms.SaleDate.IsZero(), "sale date should default to now")
						return nil
					})
				service.EXPECT().
					GetItem(gomock.Any(), id).
					Return(helpers.CreateTestItem(), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "negative_price",
			body:           `{"sale_price":"-1"}`,
			setupMock:      func(service *mocks.MockItemService, id uuid.UUID) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "stale_version",
			body: `{"sale_price":"10.00"}`,
			setupMock: func(service *mocks.MockItemService, id uuid.UUID) {
				service.EXPECT().
					MarkItemSold(gomock.Any(), id, gomock.Any()).
					Return(fmt.Errorf("failed to mark sold: %w", ports.ErrStaleWrite))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockItemService(ctrl)
			mux := newItemMux(service)

			id := uuid.New()
			tt.setupMock(service, id)

			req := httptest.NewRequest("POST", "/api/v1/items/"+id.String()+"/sold", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestItemHandler_MoveItem(t *testing.T) {
	t.Run("moves_to_pallet", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockItemService(ctrl)
		mux := newItemMux(service)

		id := uuid.New()
		target := uuid.New()
		service.EXPECT().
			MoveItem(gomock.Any(), id, gomock.Any()).
			DoAndReturn(func(_ interface{}, _ uuid.UUID, toPallet *uuid.UUID) error {
				require.NotNil(t, toPallet)
				assert.Equal(t, target, *toPallet)
				return nil
			})

		body := fmt.Sprintf(`{"pallet_id":"%s"}`, target)
		req := httptest.NewRequest("POST", "/api/v1/items/"+id.String()+"/move", bytes.NewBufferString(body))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("null_pallet_detaches", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockItemService(ctrl)
		mux := newItemMux(service)

		id := uuid.New()
		service.EXPECT().
			MoveItem(gomock.Any(), id, gomock.Nil()).
			Return(nil)

		req := httptest.NewRequest("POST", "/api/v1/items/"+id.String()+"/move", bytes.NewBufferString(`{"pallet_id":null}`))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestItemHandler_UpdateItem_RequiresVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockItemService(ctrl)
	mux := newItemMux(service)

	body := `{"name":"Renamed","quantity":1}`
	req := httptest.NewRequest("PUT", "/api/v1/items/"+uuid.New().String(), bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "version")
}

func TestItemHandler_GetItem_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockItemService(ctrl)
	mux := newItemMux(service)

	id := uuid.New()
	service.EXPECT().
		GetItem(gomock.Any(), id).
		Return(nil, fmt.Errorf("failed to get item: %w", ports.ErrNotFound))

	req := httptest.NewRequest("GET", "/api/v1/items/"+id.String(), nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.NotEmpty(t, resp["error"])
}
