package cartengine

import (
	"github.com/shopspring/decimal"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/pricing"
)

// ComputeDisplayTotal derives the grand total to show for the cart.
//
// The authoritative total from the last reconciliation always wins. Only
// when it is absent (optimistic edits pending, or a backend response that
// omitted it) does the engine fall back to summing locally resolved line
// subtotals. The second return value reports which case applied, so callers
// can log the degraded path instead of presenting it as authoritative.
func ComputeDisplayTotal(cart models.Cart, profiles ProfileSource) (decimal.Decimal, bool) {
	if cart.TotalPrice != nil {
		return *cart.TotalPrice, true
	}

	total := decimal.Zero
	for _, line := range cart.Lines {
		if line.Quantity < 1 {
			continue
		}
		if profiles != nil {
			if profile, ok := profiles.Profile(KeyForLine(line)); ok {
				total = total.Add(pricing.LineSubtotal(profile, line.Quantity))
				continue
			}
		}
		// no profile snapshot: trust the line's last derived subtotal
		total = total.Add(line.Subtotal)
	}
	return total, false
}
