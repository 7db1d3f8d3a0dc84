// internal/core/analytics/insights.go
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/ammerola/palletflow/internal/core/domain"
)

// Insight rule identifiers. Stable keys so the presentation layer can
// deduplicate and route.
const (
	InsightFirstSale     = "first-sale"
	InsightMilestone     = "milestone"
	InsightStale         = "stale-inventory"
	InsightBestPallet    = "best-pallet"
	InsightBestSupplier  = "best-supplier"
	InsightBestItem      = "best-individual-item"
	InsightBestSource    = "best-source-type"
	InsightFastestFlip   = "fastest-flip"
	InsightQuickFlips    = "quick-flips"
	InsightUnlistedItems = "unlisted-items"
)

// Fixed rule priorities, higher is more important.
const (
	priorityFirstSale    = 100
	priorityMilestone    = 95
	priorityStale        = 90
	priorityBestPallet   = 78
	priorityBestSupplier = 76
	priorityBestItem     = 75
	priorityBestSource   = 74
	priorityFastestFlip  = 72
	priorityQuickFlips   = 70
	priorityUnlisted     = 60
)

// DefaultStaleThresholdDays is the listing age beyond which inventory is
// flagged as stale.
const DefaultStaleThresholdDays = 30

// maxInsights caps the generated list.
const maxInsights = 3

// rotationBucket is how long one shuffle order of the rotating pool
// stays stable.
const rotationBucket = 3 * time.Hour

// milestones are checked in descending order so only the highest
// applicable one fires; a count within [N, N+5) matches N.
var milestones = []int{100, 50, 25, 10}

// InsightParams is the snapshot the generator reads. It is never
// mutated; generation is a pure function of the snapshot and now.
type InsightParams struct {
	Pallets            []domain.Pallet
	Items              []domain.Item
	StaleThresholdDays int // zero means DefaultStaleThresholdDays
}

// GenerateInsights produces at most three prioritized insights for the
// current snapshot. Always-shown rules (celebrations, stale warnings)
// are evaluated first; the remaining candidates rotate deterministically
// on a three-hour cadence so the dashboard varies without flickering
// between reloads.
func GenerateInsights(params InsightParams, now time.Time) []domain.Insight {
	threshold := params.StaleThresholdDays
	if threshold <= 0 {
		threshold = DefaultStaleThresholdDays
	}

	priority := priorityPool(params, threshold, now)
	rotating := rotatingPool(params, now)
	shuffle(rotating, rotationSeed(now))

	all := append(priority, rotating...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Priority > all[j].Priority
	})

	if len(all) > maxInsights {
		all = all[:maxInsights]
	}
	return all
}

func priorityPool(params InsightParams, staleThresholdDays int, now time.Time) []domain.Insight {
	var pool []domain.Insight

	soldCount := 0
	var firstSold *domain.Item
	for i := range params.Items {
		if params.Items[i].IsSold() {
			soldCount++
			if firstSold == nil {
				firstSold = &params.Items[i]
			}
		}
	}

	if soldCount == 1 && firstSold != nil {
		profit := ItemProfit(firstSold.SalePrice, firstSold.AllocatedCost, firstSold.PurchaseCost)
		pool = append(pool, domain.Insight{
			ID:       InsightFirstSale,
			Type:     domain.InsightSuccess,
			Icon:     "trophy",
			Title:    "First sale!",
			Message:  fmt.Sprintf("Congratulations on your first sale! You made $%s in profit.", profit.StringFixed(2)),
			Priority: priorityFirstSale,
			Target:   "sales",
		})
	}

	for _, m := range milestones {
		if soldCount >= m && soldCount < m+5 {
			pool = append(pool, domain.Insight{
				ID:       InsightMilestone,
				Type:     domain.InsightSuccess,
				Icon:     "star",
				Title:    fmt.Sprintf("%d sales milestone", m),
				Message:  fmt.Sprintf("You've passed %d items sold. Keep it up!", m),
				Priority: priorityMilestone,
				Target:   "sales",
			})
			break
		}
	}

	staleCount := 0
	cutoff := now.AddDate(0, 0, -staleThresholdDays)
	for i := range params.Items {
		it := &params.Items[i]
		if it.Status == domain.ItemListed && it.ListingDate != nil && !it.ListingDate.After(cutoff) {
			staleCount++
		}
	}
	if staleCount >= 1 {
		pool = append(pool, domain.Insight{
			ID:       InsightStale,
			Type:     domain.InsightWarning,
			Icon:     "clock",
			Title:    "Stale listings",
			Message:  fmt.Sprintf("%d items have been listed for over %d days. Consider a price drop.", staleCount, staleThresholdDays),
			Priority: priorityStale,
			Target:   "inventory",
		})
	}

	return pool
}

func rotatingPool(params InsightParams, now time.Time) []domain.Insight {
	var pool []domain.Insight

	if g := BestPallet(params.Pallets, params.Items); g != nil {
		pool = append(pool, domain.Insight{
			ID:       InsightBestPallet,
			Type:     domain.InsightTip,
			Icon:     "chart",
			Title:    "Top pallet",
			Message:  fmt.Sprintf("%s is your best performer at %s%% ROI.", g.Key, g.ROI.Round(0)),
			Priority: priorityBestPallet,
			Target:   "pallets",
		})
	}

	if g := BestSupplier(params.Pallets, params.Items); g != nil {
		pool = append(pool, domain.Insight{
			ID:       InsightBestSupplier,
			Type:     domain.InsightTip,
			Icon:     "truck",
			Title:    "Top supplier",
			Message:  fmt.Sprintf("Pallets from %s average %s%% ROI. Worth buying from again.", g.Key, g.ROI.Round(0)),
			Priority: priorityBestSupplier,
			Target:   "pallets",
		})
	}

	if it, roi := BestIndividualItem(params.Items); it != nil {
		pool = append(pool, domain.Insight{
			ID:       InsightBestItem,
			Type:     domain.InsightSuccess,
			Icon:     "gem",
			Title:    "Star item",
			Message:  fmt.Sprintf("%s earned %s%% ROI. Look for more like it.", it.Name, roi.Round(0)),
			Priority: priorityBestItem,
			Target:   "inventory",
		})
	}

	if g := BestSourceType(params.Pallets, params.Items); g != nil {
		pool = append(pool, domain.Insight{
			ID:       InsightBestSource,
			Type:     domain.InsightTip,
			Icon:     "map",
			Title:    "Best source",
			Message:  fmt.Sprintf("%s pallets are your most profitable source at %s%% ROI.", g.Key, g.ROI.Round(0)),
			Priority: priorityBestSource,
			Target:   "pallets",
		})
	}

	if it, days := FastestFlip(params.Items, now); it != nil {
		pool = append(pool, domain.Insight{
			ID:       InsightFastestFlip,
			Type:     domain.InsightSuccess,
			Icon:     "bolt",
			Title:    "Fast flip",
			Message:  fmt.Sprintf("%s sold in just %d days.", it.Name, days),
			Priority: priorityFastestFlip,
			Target:   "sales",
		})
	}

	if n := QuickFlipCount(params.Items, now); n > 0 {
		pool = append(pool, domain.Insight{
			ID:       InsightQuickFlips,
			Type:     domain.InsightInfo,
			Icon:     "zap",
			Title:    "Quick flips",
			Message:  fmt.Sprintf("%d items sold within a week of listing this month.", n),
			Priority: priorityQuickFlips,
			Target:   "sales",
		})
	}

	unlisted := 0
	for i := range params.Items {
		if params.Items[i].Status == domain.ItemUnprocessed {
			unlisted++
		}
	}
	if unlisted >= 5 {
		pool = append(pool, domain.Insight{
			ID:       InsightUnlistedItems,
			Type:     domain.InsightInfo,
			Icon:     "list",
			Title:    "Unlisted inventory",
			Message:  fmt.Sprintf("You have %d items that haven't been listed yet.", unlisted),
			Priority: priorityUnlisted,
			Target:   "inventory",
		})
	}

	return pool
}

// rotationSeed buckets the wall clock so the shuffle order only changes
// every rotation interval.
func rotationSeed(now time.Time) int64 {
	return now.UnixMilli() / rotationBucket.Milliseconds()
}

// RotationCacheKey returns a cache key fragment that changes exactly
// when the rotation order does.
func RotationCacheKey(now time.Time) string {
	return fmt.Sprintf("rot-%d", rotationSeed(now))
}

// shuffle performs a seeded Fisher-Yates pass using a linear
/// congruential recurrence. The exact constants are load-bearing: cached
// and freshly computed insight lists must agree for a given timestamp.
func shuffle(insights []domain.Insight, seed int64) {
	for i := len(insights) - 1; i >= 1; i-- {
		seed = (seed*1103515245 + 12345) % (1 << 31)
		j := seed % int64(i+1)
		insights[i], insights[j] = insights[j], insights[i]
	}
}
