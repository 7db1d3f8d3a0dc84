// internal/core/analytics/fees.go
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
)

// FeeTier is one band of a tiered fee rule: prices at or below Threshold
// pay the flat Fee.
type FeeTier struct {
	Threshold decimal.Decimal `json:"threshold"`
	Fee       decimal.Decimal `json:"fee"`
}

// FeeRule describes how a platform charges a final-value fee. Percent and
// Fixed combine additively; Tiers, when present, take precedence for
// prices within a band. AuctionPercent overrides Percent for
// auction-style sales when non-zero.
type FeeRule struct {
	Percent        decimal.Decimal `json:"percent"`
	AuctionPercent decimal.Decimal `json:"auction_percent"`
	Fixed          decimal.Decimal `json:"fixed"`
	Tiers          []FeeTier       `json:"tiers,omitempty"`
}

// FeeSchedule maps each platform to its fee rule. The schedule is
// configuration data injected at construction, never process-global state.
type FeeSchedule map[domain.Platform]FeeRule

// Fee returns the absolute fee amount for selling at price on platform.
// Unknown platforms charge nothing.
func (s FeeSchedule) Fee(price decimal.Decimal, platform domain.Platform, auctionStyle bool) decimal.Decimal {
	rule, ok := s[platform]
	if !ok {
		return decimal.Zero
	}

	for _, tier := range rule.Tiers {
		if price.LessThanOrEqual(tier.Threshold) {
			return tier.Fee
		}
	}

	pct := rule.Percent
	if auctionStyle && !rule.AuctionPercent.IsZero() {
		pct = rule.AuctionPercent
	}

	return price.Mul(pct).Div(hundred).Add(rule.Fixed)
}

// DefaultFeeSchedule returns the stock fee table. Deployments override
// individual rules through configuration.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		domain.PlatformEBay: {
			Percent: decimal.NewFromFloat(13.25),
			Fixed:   decimal.NewFromFloat(0.30),
		},
		domain.PlatformPoshmark: {
			Percent: decimal.NewFromFloat(20),
			Tiers: []FeeTier{
				{Threshold: decimal.NewFromFloat(15), Fee: decimal.NewFromFloat(2.95)},
			},
		},
		domain.PlatformMercari: {
			Percent: decimal.NewFromFloat(10),
			Fixed:   decimal.NewFromFloat(0.50),
		},
		domain.PlatformFacebook: {
			Percent: decimal.NewFromFloat(5),
		},
		domain.PlatformEtsy: {
			Percent: decimal.NewFromFloat(6.5),
			Fixed:   decimal.NewFromFloat(0.20),
		},
		domain.PlatformDepop: {
			Percent: decimal.NewFromFloat(10),
		},
		domain.PlatformOther: {},
	}
}
