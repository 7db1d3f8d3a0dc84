// internal/core/services/insights.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

const (
	insightsCacheTTL = 3 * time.Hour
	summaryCacheTTL  = 5 * time.Minute
)

// InsightsService assembles the dashboard read models: the rotating
// insight cards, the onboarding empty state and the period summary.
type InsightsService struct {
	pallets            ports.PalletRepository
	items              ports.ItemRepository
	expenses           ports.ExpenseRepository
	cache              ports.CacheRepository
	staleThresholdDays int
	logger             *slog.Logger

	// now is swapped in tests to pin the rotation bucket.
	now func() time.Time
}

// Statically assert that *InsightsService implements the InsightsService interface.
var _ ports.InsightsService = (*InsightsService)(nil)

// NewInsightsService creates a new insights service
func NewInsightsService(
	pallets ports.PalletRepository,
	items ports.ItemRepository,
	expenses ports.ExpenseRepository,
	cache ports.CacheRepository,
	staleThresholdDays int,
	logger *slog.Logger,
) *InsightsService {
	return &InsightsService{
		pallets:            pallets,
		items:              items,
		expenses:           expenses,
		cache:              cache,
		staleThresholdDays: staleThresholdDays,
		logger:             logger.With(slog.String("service", "insights")),
		now:                time.Now,
	}
}

// Insights returns the current insight cards. Results are cached per
// rotation bucket, so a cached read and a fresh generation agree until
// the rotation rolls over.
func (s *InsightsService) Insights(ctx context.Context) ([]domain.Insight, error) {
	now := s.now()
	key := fmt.Sprintf("dashboard:insights:%s", analytics.RotationCacheKey(now))

	var insights []domain.Insight
	err := s.cache.GetOrSet(ctx, key, &insights, func() (interface{}, error) {
		params, err := s.loadSnapshot(ctx)
		if err != nil {
			return nil, err
		}
		return analytics.GenerateInsights(*params, now), nil
	}, insightsCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build insights: %w", err)
	}

	return insights, nil
}

// EmptyState returns onboarding guidance when the account has nothing
// meaningful to chart yet, or nil once sales are flowing.
func (s *InsightsService) EmptyState(ctx context.Context) (*analytics.EmptyState, error) {
	params, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	stage := analytics.GetUserStage(params.Pallets, params.Items)
	if stage == analytics.StageEstablished {
		return nil, nil
	}

	content := analytics.GetEmptyStateContent(stage)
	return &content, nil
}

// Summary computes the headline totals for the given period. Sold
// metrics are scoped by sale date, investment by acquisition date.
func (s *InsightsService) Summary(ctx context.Context, period analytics.Period) (*ports.DashboardSummary, error) {
	now := s.now()
	key := fmt.Sprintf("dashboard:summary:%s", period)

	var summary ports.DashboardSummary
	err := s.cache.GetOrSet(ctx, key, &summary, func() (interface{}, error) {
		return s.buildSummary(ctx, period, now)
	}, summaryCacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	return &summary, nil
}

func (s *InsightsService) buildSummary(ctx context.Context, period analytics.Period, now time.Time) (*ports.DashboardSummary, error) {
	params, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenses.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	summary := &ports.DashboardSummary{
		Period:        period,
		TotalPallets:  len(params.Pallets),
		TotalItems:    len(params.Items),
		TotalInvested: decimal.Zero,
		TotalRevenue:  decimal.Zero,
		TotalProfit:   decimal.Zero,
		AverageROI:    decimal.Zero,
	}

	for i := range params.Pallets {
		p := &params.Pallets[i]
		if analytics.IsWithinPeriod(&p.PurchaseDate, period, now) {
			summary.TotalInvested = summary.TotalInvested.Add(p.TotalCost())
		}
	}

	roiSum := decimal.Zero
	for i := range params.Items {
		it := &params.Items[i]
		if it.Status == domain.ItemListed {
			summary.TotalListed++
		}
		if it.IsIndividual() && analytics.IsWithinPeriod(&it.CreatedAt, period, now) {
			if it.PurchaseCost != nil {
				summary.TotalInvested = summary.TotalInvested.Add(*it.PurchaseCost)
			}
		}
		if !it.IsSold() || !analytics.IsWithinPeriod(it.SaleDate, period, now) {
			continue
		}

		summary.TotalSold++
		summary.TotalRevenue = summary.TotalRevenue.Add(*it.SalePrice)

		fee := decimal.Zero
		if it.PlatformFee != nil {
			fee = *it.PlatformFee
		}
		summary.TotalProfit = summary.TotalProfit.Add(
			analytics.NetProfit(*it.SalePrice, it.CostBasis(), fee, it.ShippingCost))
		roiSum = roiSum.Add(analytics.ItemROI(it.SalePrice, it.AllocatedCost, it.PurchaseCost))
	}

	for i := range expenses {
		e := &expenses[i]
		if analytics.IsWithinPeriod(&e.Date, period, now) {
			summary.TotalProfit = summary.TotalProfit.Sub(e.Amount)
		}
	}

	if summary.TotalSold > 0 {
		summary.AverageROI = roiSum.DivRound(decimal.NewFromInt(int64(summary.TotalSold)), 2)
	}

	return summary, nil
}

func (s *InsightsService) loadSnapshot(ctx context.Context) (*analytics.InsightParams, error) {
	pallets, err := s.pallets.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pallets: %w", err)
	}

	items, _, err := s.items.FindAll(ctx, ports.ItemListParams{Page: 1, PageSize: snapshotPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	return &analytics.InsightParams{
		Pallets:            pallets,
		Items:              items,
		StaleThresholdDays: s.staleThresholdDays,
	}, nil
}

// snapshotPageSize bounds the analytics snapshot. Accounts near this
// size should move to SQL-side aggregation.
const snapshotPageSize = 10000
