// internal/core/analytics/profit.go
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
)

var hundred = decimal.NewFromInt(100)

// costBasis resolves the authoritative cost: allocated cost wins over
// purchase cost, and missing both means zero.
func costBasis(allocated, purchase *decimal.Decimal) decimal.Decimal {
	if allocated != nil {
		return *allocated
	}
	if purchase != nil {
		return *purchase
	}
	return decimal.Zero
}

// ItemProfit returns salePrice minus the item's cost basis. Unsold items
// (nil sale price) yield zero rather than an error.
func ItemProfit(salePrice, allocatedCost, purchaseCost *decimal.Decimal) decimal.Decimal {
	if salePrice == nil {
		return decimal.Zero
	}
	return salePrice.Sub(costBasis(allocatedCost, purchaseCost))
}

// ItemROI returns the return on investment as a percentage. A zero cost
// basis with a positive sale price is reported as 100% rather than
// dividing by zero; unsold items yield zero.
func ItemROI(salePrice, allocatedCost, purchaseCost *decimal.Decimal) decimal.Decimal {
	if salePrice == nil {
		return decimal.Zero
	}
	cost := costBasis(allocatedCost, purchaseCost)
	if cost.IsZero() {
		if salePrice.IsPositive() {
			return hundred
		}
		return decimal.Zero
	}
	return salePrice.Sub(cost).Div(cost).Mul(hundred)
}

// NetProfit returns salePrice minus cost, platform fee, and shipping.
func NetProfit(salePrice, cost, platformFee decimal.Decimal, shippingCost *decimal.Decimal) decimal.Decimal {
	net := salePrice.Sub(cost).Sub(platformFee)
	if shippingCost != nil {
		net = net.Sub(*shippingCost)
	}
	return net
}

// PalletProfit sums net profit over the pallet's sold items and subtracts
// the pallet's share of any linked expenses.
func PalletProfit(pallet *domain.Pallet, items []domain.Item, expenses []domain.Expense) decimal.Decimal {
	total := decimal.Zero

	for i := range items {
		it := &items[i]
		if !it.IsSold() || it.SalePrice == nil {
			continue
		}
		fee := decimal.Zero
		if it.PlatformFee != nil {
			fee = *it.PlatformFee
		}
		total = total.Add(NetProfit(*it.SalePrice, it.CostBasis(), fee, it.ShippingCost))
	}

	for i := range expenses {
		total = total.Sub(expenses[i].ShareFor(pallet.ID))
	}

	return total
}
