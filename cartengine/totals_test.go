package cartengine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

func tieredProfile(variantID uuid.UUID) models.VariantPriceProfile {
	nine := 9
	return models.VariantPriceProfile{
		VariantID: variantID,
		BasePrice: decimal.NewFromInt(139000),
		Active:    true,
		Tiers: []models.PriceTier{
			{ID: uuid.New(), VariantID: variantID, MinQuantity: 1, MaxQuantity: &nine, Price: decimal.NewFromInt(139000)},
			{ID: uuid.New(), VariantID: variantID, MinQuantity: 10, Price: decimal.NewFromInt(109000)},
		},
	}
}

func TestComputeDisplayTotalAuthoritativeWins(t *testing.T) {
	total := decimal.NewFromInt(1390000)
	cart := models.Cart{
		TotalPrice: &total,
		Lines: []models.CartLine{
			// deliberately inconsistent with the total: authoritative still wins
			{ProductID: uuid.New(), Quantity: 1, Subtotal: decimal.NewFromInt(99)},
		},
	}

	got, authoritative := ComputeDisplayTotal(cart, nil)
	if !authoritative {
		t.Error("authoritative total present but not reported as such")
	}
	if !got.Equal(total) {
		t.Errorf("ComputeDisplayTotal() = %s, want the authoritative %s", got, total)
	}
}

func TestComputeDisplayTotalFallbackResolvesTiers(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)

	profiles := NewCatalogSnapshot()
	profiles.Put(key, tieredProfile(variantID))

	cart := models.Cart{Lines: []models.CartLine{
		{ProductID: productID, VariantID: &variantID, Quantity: 12},
	}}

	got, authoritative := ComputeDisplayTotal(cart, profiles)
	if authoritative {
		t.Error("fallback total reported as authoritative")
	}
	// 12 units land in the 10+ bracket: 12 × 109000
	want := decimal.NewFromInt(1308000)
	if !got.Equal(want) {
		t.Errorf("ComputeDisplayTotal() = %s, want %s", got, want)
	}
}

func TestComputeDisplayTotalFallbackWithoutProfileUsesLineSubtotal(t *testing.T) {
	cart := models.Cart{Lines: []models.CartLine{
		{ProductID: uuid.New(), Quantity: 2, Subtotal: decimal.NewFromInt(278000)},
	}}

	got, authoritative := ComputeDisplayTotal(cart, NewCatalogSnapshot())
	if authoritative {
		t.Error("fallback total reported as authoritative")
	}
	if want := decimal.NewFromInt(278000); !got.Equal(want) {
		t.Errorf("ComputeDisplayTotal() = %s, want the line's last derived subtotal %s", got, want)
	}
}

func TestComputeDisplayTotalSkipsZeroQuantityLines(t *testing.T) {
	productID := uuid.New()
	variantID := uuid.New()
	key := KeyFor(productID, &variantID)

	profiles := NewCatalogSnapshot()
	profiles.Put(key, tieredProfile(variantID))

	cart := models.Cart{Lines: []models.CartLine{
		{ProductID: productID, VariantID: &variantID, Quantity: 0, Subtotal: decimal.NewFromInt(139000)},
	}}

	got, _ := ComputeDisplayTotal(cart, profiles)
	if !got.Equal(decimal.Zero) {
		t.Errorf("ComputeDisplayTotal() = %s, want 0 for an all-zero cart", got)
	}
}
