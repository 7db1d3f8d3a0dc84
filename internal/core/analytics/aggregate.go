// internal/core/analytics/aggregate.go
package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
)

// Minimum sold-item counts for a group to be rankable.
const (
	minPalletSamples = 2
	minGroupSamples  = 3
)

// individualROIThreshold gates the best-individual-item insight: the
// winner's ROI must exceed this percentage to be worth surfacing.
var individualROIThreshold = decimal.NewFromInt(20)

// Flip windows, in days.
const (
	flipLookbackDays = 30
	quickFlipCutoff  = 7
	fastFlipCutoff   = 3
)

// GroupStats aggregates sold-item economics for one ranking group
// (a single pallet, a supplier, or a source type).
type GroupStats struct {
	Key          string
	PalletID     uuid.UUID
	SoldCount    int
	TotalCost    decimal.Decimal
	TotalRevenue decimal.Decimal
	ROI          decimal.Decimal
}

// groupAccumulator collects stats in first-encounter order so ROI ties
// resolve stably without re-sorting.
type groupAccumulator struct {
	order []string
	byKey map[string]*GroupStats
}

func newGroupAccumulator() *groupAccumulator {
	return &groupAccumulator{byKey: make(map[string]*GroupStats)}
}

func (a *groupAccumulator) add(key string, palletID uuid.UUID, it *domain.Item) {
	g, ok := a.byKey[key]
	if !ok {
		g = &GroupStats{Key: key, PalletID: palletID, TotalCost: decimal.Zero, TotalRevenue: decimal.Zero}
		a.byKey[key] = g
		a.order = append(a.order, key)
	}

	cost := it.CostBasis()
	if it.PlatformFee != nil {
		cost = cost.Add(*it.PlatformFee)
	}
	if it.ShippingCost != nil {
		cost = cost.Add(*it.ShippingCost)
	}

	g.SoldCount++
	g.TotalCost = g.TotalCost.Add(cost)
	if it.SalePrice != nil {
		g.TotalRevenue = g.TotalRevenue.Add(*it.SalePrice)
	}
}

// winner returns the rankable group with the strictly highest positive
// ROI, or nil when no group passes the sample gate or the best ROI is
// not positive.
func (a *groupAccumulator) winner(minSamples int) *GroupStats {
	var best *GroupStats
	for _, key := range a.order {
		g := a.byKey[key]
		if g.SoldCount < minSamples {
			continue
		}
		if g.TotalCost.IsPositive() {
			g.ROI = g.TotalRevenue.Sub(g.TotalCost).Div(g.TotalCost).Mul(hundred)
		} else {
			g.ROI = decimal.Zero
		}
		if best == nil || g.ROI.GreaterThan(best.ROI) {
			best = g
		}
	}
	if best == nil || !best.ROI.IsPositive() {
		return nil
	}
	return best
}

func palletIndex(pallets []domain.Pallet) map[uuid.UUID]*domain.Pallet {
	idx := make(map[uuid.UUID]*domain.Pallet, len(pallets))
	for i := range pallets {
		idx[pallets[i].ID] = &pallets[i]
	}
	return idx
}

// BestPallet ranks pallets by ROI over their sold items. A pallet needs
// at least two sold items to be rankable.
func BestPallet(pallets []domain.Pallet, items []domain.Item) *GroupStats {
	idx := palletIndex(pallets)
	acc := newGroupAccumulator()

	for i := range items {
		it := &items[i]
		if !it.IsSold() || it.PalletID == nil {
			continue
		}
		p, ok := idx[*it.PalletID]
		if !ok {
			continue
		}
		acc.add(p.ID.String(), p.ID, it)
		// Carry the display name through the key's stats.
		acc.byKey[p.ID.String()].Key = p.Name
	}

	return acc.winner(minPalletSamples)
}

// BestSupplier ranks suppliers by ROI over sold items across all their
// pallets. Needs at least three sold items; pallets without a supplier
// are not grouped.
func BestSupplier(pallets []domain.Pallet, items []domain.Item) *GroupStats {
	idx := palletIndex(pallets)
	acc := newGroupAccumulator()

	for i := range items {
		it := &items[i]
		if !it.IsSold() || it.PalletID == nil {
			continue
		}
		p, ok := idx[*it.PalletID]
		if !ok || p.Supplier == "" {
			continue
		}
		acc.add(p.Supplier, p.ID, it)
	}

	return acc.winner(minGroupSamples)
}

// BestSourceType ranks source-type labels by ROI over sold items. The
// "Unknown" fallback bucket is always excluded from ranking.
func BestSourceType(pallets []domain.Pallet, items []domain.Item) *GroupStats {
	idx := palletIndex(pallets)
	acc := newGroupAccumulator()

	for i := range items {
		it := &items[i]
		if !it.IsSold() || it.PalletID == nil {
			continue
		}
		p, ok := idx[*it.PalletID]
		if !ok {
			continue
		}
		bucket := p.SourceBucket()
		if bucket == domain.UnknownSource {
			continue
		}
		acc.add(bucket, p.ID, it)
	}

	return acc.winner(minGroupSamples)
}

// BestIndividualItem returns the individual (non-pallet) sold item with
// the highest ROI, provided it had a positive purchase cost and its ROI
// exceeds the excitement threshold.
func BestIndividualItem(items []domain.Item) (*domain.Item, decimal.Decimal) {
	var best *domain.Item
	bestROI := decimal.Zero

	for i := range items {
		it := &items[i]
		if !it.IsSold() || !it.IsIndividual() {
			continue
		}
		if it.PurchaseCost == nil || !it.PurchaseCost.IsPositive() {
			continue
		}
		roi := ItemROI(it.SalePrice, it.AllocatedCost, it.PurchaseCost)
		if best == nil || roi.GreaterThan(bestROI) {
			best = it
			bestROI = roi
		}
	}

	if best == nil || !bestROI.GreaterThan(individualROIThreshold) {
		return nil, decimal.Zero
	}
	return best, bestROI
}

// soldWithinWindow reports whether the item sold within the rolling flip
// lookback window ending at now.
func soldWithinWindow(it *domain.Item, now time.Time) bool {
	if !it.IsSold() || it.SaleDate == nil {
		return false
	}
	cutoff := now.AddDate(0, 0, -flipLookbackDays)
	return !it.SaleDate.Before(cutoff) && !it.SaleDate.After(now)
}

// FastestFlip returns the single quickest recent sale, if any sold
// within the fast-flip cutoff. Ties keep the first encountered item.
func FastestFlip(items []domain.Item, now time.Time) (*domain.Item, int) {
	var best *domain.Item
	bestDays := 0

	for i := range items {
		it := &items[i]
		if !soldWithinWindow(it, now) {
			continue
		}
		days := it.DaysToSell()
		if days < 0 || days > fastFlipCutoff {
			continue
		}
		if best == nil || days < bestDays {
			best = it
			bestDays = days
		}
	}

	if best == nil {
		return nil, 0
	}
	return best, bestDays
}

// QuickFlipCount counts recent sales that closed within the quick-flip
// cutoff.
func QuickFlipCount(items []domain.Item, now time.Time) int {
	count := 0
	for i := range items {
		it := &items[i]
		if !soldWithinWindow(it, now) {
			continue
		}
		if days := it.DaysToSell(); days >= 0 && days <= quickFlipCutoff {
			count++
		}
	}
	return count
}
