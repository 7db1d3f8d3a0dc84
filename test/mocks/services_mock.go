// Code generated by MockGen. DO NOT EDIT.
// Source: ../../internal/core/ports/services.go
//
// Generated by this command:
//
//	mockgen -source=../../internal/core/ports/services.go -destination=services_mock.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	analytics "github.com/ammerola/palletflow/internal/core/analytics"
	domain "github.com/ammerola/palletflow/internal/core/domain"
	ports "github.com/ammerola/palletflow/internal/core/ports"
	uuid "github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"
)

// MockPalletService is a mock of PalletService interface.
type MockPalletService struct {
	ctrl     *gomock.Controller
	recorder *MockPalletServiceMockRecorder
	isgomock struct{}
}

// MockPalletServiceMockRecorder is the mock recorder for MockPalletService.
type MockPalletServiceMockRecorder struct {
	mock *MockPalletService
}

// NewMockPalletService creates a new mock instance.
func NewMockPalletService(ctrl *gomock.Controller) *MockPalletService {
	mock := &MockPalletService{ctrl: ctrl}
	mock.recorder = &MockPalletServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPalletService) EXPECT() *MockPalletServiceMockRecorder {
	return m.recorder
}

// CreatePallet mocks base method.
func (m *MockPalletService) CreatePallet(ctx context.Context, pallet *domain.Pallet) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreatePallet", ctx, pallet)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreatePallet indicates an expected call of CreatePallet.
func (mr *MockPalletServiceMockRecorder) CreatePallet(ctx, pallet any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreatePallet", reflect.TypeOf((*MockPalletService)(nil).CreatePallet), ctx, pallet)
}

// DeletePallet mocks base method.
func (m *MockPalletService) DeletePallet(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeletePallet", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeletePallet indicates an expected call of DeletePallet.
func (mr *MockPalletServiceMockRecorder) DeletePallet(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeletePallet", reflect.TypeOf((*MockPalletService)(nil).DeletePallet), ctx, id)
}

// GetPallet mocks base method.
func (m *MockPalletService) GetPallet(ctx context.Context, id uuid.UUID) (*domain.Pallet, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetPallet", ctx, id)
	ret0, _ := ret[0].(*domain.Pallet)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetPallet indicates an expected call of GetPallet.
func (mr *MockPalletServiceMockRecorder) GetPallet(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetPallet", reflect.TypeOf((*MockPalletService)(nil).GetPallet), ctx, id)
}

// ListPallets mocks base method.
func (m *MockPalletService) ListPallets(ctx context.Context) ([]domain.Pallet, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListPallets", ctx)
	ret0, _ := ret[0].([]domain.Pallet)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListPallets indicates an expected call of ListPallets.
func (mr *MockPalletServiceMockRecorder) ListPallets(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListPallets", reflect.TypeOf((*MockPalletService)(nil).ListPallets), ctx)
}

// PalletProfit mocks base method.
func (m *MockPalletService) PalletProfit(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "PalletProfit", ctx, id)
	ret0, _ := ret[0].(decimal.Decimal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// PalletProfit indicates an expected call of PalletProfit.
func (mr *MockPalletServiceMockRecorder) PalletProfit(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "PalletProfit", reflect.TypeOf((*MockPalletService)(nil).PalletProfit), ctx, id)
}

// UpdatePallet mocks base method.
func (m *MockPalletService) UpdatePallet(ctx context.Context, id uuid.UUID, pallet *domain.Pallet) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdatePallet", ctx, id, pallet)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdatePallet indicates an expected call of UpdatePallet.
func (mr *MockPalletServiceMockRecorder) UpdatePallet(ctx, id, pallet any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdatePallet", reflect.TypeOf((*MockPalletService)(nil).UpdatePallet), ctx, id, pallet)
}

// MockItemService is a mock of ItemService interface.
type MockItemService struct {
	ctrl     *gomock.Controller
	recorder *MockItemServiceMockRecorder
	isgomock struct{}
}

// MockItemServiceMockRecorder is the mock recorder for MockItemService.
type MockItemServiceMockRecorder struct {
	mock *MockItemService
}

// NewMockItemService creates a new mock instance.
func NewMockItemService(ctrl *gomock.Controller) *MockItemService {
	mock := &MockItemService{ctrl: ctrl}
	mock.recorder = &MockItemServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockItemService) EXPECT() *MockItemServiceMockRecorder {
	return m.recorder
}

// CreateItem mocks base method.
func (m *MockItemService) CreateItem(ctx context.Context, item *domain.Item) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateItem", ctx, item)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateItem indicates an expected call of CreateItem.
func (mr *MockItemServiceMockRecorder) CreateItem(ctx, item any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateItem", reflect.TypeOf((*MockItemService)(nil).CreateItem), ctx, item)
}

// DeleteItem mocks base method.
func (m *MockItemService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteItem", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteItem indicates an expected call of DeleteItem.
func (mr *MockItemServiceMockRecorder) DeleteItem(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteItem", reflect.TypeOf((*MockItemService)(nil).DeleteItem), ctx, id)
}

// GetItem mocks base method.
func (m *MockItemService) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetItem", ctx, id)
	ret0, _ := ret[0].(*domain.Item)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetItem indicates an expected call of GetItem.
func (mr *MockItemServiceMockRecorder) GetItem(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetItem", reflect.TypeOf((*MockItemService)(nil).GetItem), ctx, id)
}

// ListItems mocks base method.
func (m *MockItemService) ListItems(ctx context.Context, params ports.ItemListParams) (*ports.ItemListResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListItems", ctx, params)
	ret0, _ := ret[0].(*ports.ItemListResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListItems indicates an expected call of ListItems.
func (mr *MockItemServiceMockRecorder) ListItems(ctx, params any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListItems", reflect.TypeOf((*MockItemService)(nil).ListItems), ctx, params)
}

// MarkItemSold mocks base method.
func (m *MockItemService) MarkItemSold(ctx context.Context, id uuid.UUID, terms ports.SaleTerms) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkItemSold", ctx, id, terms)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkItemSold indicates an expected call of MarkItemSold.
func (mr *MockItemServiceMockRecorder) MarkItemSold(ctx, id, terms any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkItemSold", reflect.TypeOf((*MockItemService)(nil).MarkItemSold), ctx, id, terms)
}

// MoveItem mocks base method.
func (m *MockItemService) MoveItem(ctx context.Context, id uuid.UUID, toPallet *uuid.UUID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MoveItem", ctx, id, toPallet)
	ret0, _ := ret[0].(error)
	return ret0
}

// MoveItem indicates an expected call of MoveItem.
func (mr *MockItemServiceMockRecorder) MoveItem(ctx, id, toPallet any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MoveItem", reflect.TypeOf((*MockItemService)(nil).MoveItem), ctx, id, toPallet)
}

// UpdateItem mocks base method.
func (m *MockItemService) UpdateItem(ctx context.Context, id uuid.UUID, item *domain.Item) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateItem", ctx, id, item)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateItem indicates an expected call of UpdateItem.
func (mr *MockItemServiceMockRecorder) UpdateItem(ctx, id, item any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateItem", reflect.TypeOf((*MockItemService)(nil).UpdateItem), ctx, id, item)
}

// MockInsightsService is a mock of InsightsService interface.
type MockInsightsService struct {
	ctrl     *gomock.Controller
	recorder *MockInsightsServiceMockRecorder
	isgomock struct{}
}

// MockInsightsServiceMockRecorder is the mock recorder for MockInsightsService.
type MockInsightsServiceMockRecorder struct {
	mock *MockInsightsService
}

// NewMockInsightsService creates a new mock instance.
func NewMockInsightsService(ctrl *gomock.Controller) *MockInsightsService {
	mock := &MockInsightsService{ctrl: ctrl}
	mock.recorder = &MockInsightsServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockInsightsService) EXPECT() *MockInsightsServiceMockRecorder {
	return m.recorder
}

// EmptyState mocks base method.
func (m *MockInsightsService) EmptyState(ctx context.Context) (*analytics.EmptyState, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EmptyState", ctx)
	ret0, _ := ret[0].(*analytics.EmptyState)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// EmptyState indicates an expected call of EmptyState.
func (mr *MockInsightsServiceMockRecorder) EmptyState(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EmptyState", reflect.TypeOf((*MockInsightsService)(nil).EmptyState), ctx)
}

// Insights mocks base method.
func (m *MockInsightsService) Insights(ctx context.Context) ([]domain.Insight, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Insights", ctx)
	ret0, _ := ret[0].([]domain.Insight)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Insights indicates an expected call of Insights.
func (mr *MockInsightsServiceMockRecorder) Insights(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Insights", reflect.TypeOf((*MockInsightsService)(nil).Insights), ctx)
}

// Summary mocks base method.
func (m *MockInsightsService) Summary(ctx context.Context, period analytics.Period) (*ports.DashboardSummary, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Summary", ctx, period)
	ret0, _ := ret[0].(*ports.DashboardSummary)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Summary indicates an expected call of Summary.
func (mr *MockInsightsServiceMockRecorder) Summary(ctx, period any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Summary", reflect.TypeOf((*MockInsightsService)(nil).Summary), ctx, period)
}
