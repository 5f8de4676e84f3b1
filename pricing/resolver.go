package pricing

import (
	"fmt"
	"sort"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
	"github.com/shopspring/decimal"
)

// Quantity-tiered price resolution. This is the single implementation used by
// both the cart editing engine (instant local preview) and the authoritative
// cart service, so displayed and charged amounts cannot diverge on tier
// selection.

// SortTiers returns a copy of tiers ordered for resolution: min_quantity
// descending, then sort_order ascending as a stable tie-break among equal
// minimums. The input is never mutated.
func SortTiers(tiers []models.PriceTier) []models.PriceTier {
	sorted := make([]models.PriceTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MinQuantity != sorted[j].MinQuantity {
			return sorted[i].MinQuantity > sorted[j].MinQuantity
		}
		return sorted[i].SortOrder < sorted[j].SortOrder
	})
	return sorted
}

// ResolveUnitPrice returns the unit price for the requested quantity.
//
// Tiers are scanned in descending min_quantity order and the first matching
// bracket wins, so when brackets overlap the highest applicable minimum
// governs. Malformed tiers (negative price, max below min) are treated as
// non-matching rather than fatal. When nothing matches, or the tier table is
// empty, the variant base price applies.
//
// Pure function: no side effects, deterministic for identical inputs. Callers
// do not invoke it for zero-quantity lines; if they do anyway, the base price
// is returned.
func ResolveUnitPrice(profile models.VariantPriceProfile, quantity int) decimal.Decimal {
	if quantity < 1 {
		return profile.BasePrice
	}

	for _, tier := range SortTiers(profile.Tiers) {
		if tier.Matches(quantity) {
			return tier.Price
		}
	}

	return profile.BasePrice
}

// LineSubtotal is the resolved unit price multiplied by quantity. Zero for
// zero-quantity lines, which carry no price by contract.
func LineSubtotal(profile models.VariantPriceProfile, quantity int) decimal.Decimal {
	if quantity < 1 {
		return decimal.Zero
	}
	return ResolveUnitPrice(profile, quantity).Mul(decimal.NewFromInt(int64(quantity)))
}

// ValidateTiers rejects brackets that must never be persisted: non-positive
// minimum, negative price, or a maximum below the minimum. Used by the tier
// catalog service before a full-replace write; the resolver itself stays
// lenient so that bad data already in the wild degrades to the base price
// instead of failing carts.
func ValidateTiers(tiers []models.PriceTierInput) error {
	for i, t := range tiers {
		if t.MinQuantity < 1 {
			return &TierValidationError{Index: i, Reason: "min_quantity must be at least 1"}
		}
		if t.Price.IsNegative() {
			return &TierValidationError{Index: i, Reason: "price must not be negative"}
		}
		if t.MaxQuantity != nil && *t.MaxQuantity < t.MinQuantity {
			return &TierValidationError{Index: i, Reason: "max_quantity must not be below min_quantity"}
		}
	}
	return nil
}

// TierValidationError identifies the offending bracket in a tier submission.
type TierValidationError struct {
	Index  int
	Reason string
}

func (e *TierValidationError) Error() string {
	return fmt.Sprintf("tier %d: %s", e.Index, e.Reason)
}
