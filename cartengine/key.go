package cartengine

import (
	"github.com/google/uuid"

	"github.com/nicholike/deploy-Ecom-LDgroup-sub000/models"
)

// LineKey identifies one editable cart slot: product + variant, or product
// alone for special (no-variant) products. Coalescing, state tracking and
// mutation serialization are all per key.
type LineKey struct {
	ProductID uuid.UUID
	VariantID uuid.UUID // uuid.Nil for special products
}

// KeyFor builds the key for a product+variant slot.
func KeyFor(productID uuid.UUID, variantID *uuid.UUID) LineKey {
	k := LineKey{ProductID: productID}
	if variantID != nil {
		k.VariantID = *variantID
	}
	return k
}

// KeyForLine builds the key for an existing cart line.
func KeyForLine(line models.CartLine) LineKey {
	return KeyFor(line.ProductID, line.VariantID)
}

// Special reports whether the key addresses a no-variant product.
func (k LineKey) Special() bool {
	return k.VariantID == uuid.Nil
}

// variantPtr returns the wire representation of the variant id.
func (k LineKey) variantPtr() *uuid.UUID {
	if k.VariantID == uuid.Nil {
		return nil
	}
	v := k.VariantID
	return &v
}

func (k LineKey) String() string {
	if k.Special() {
		return k.ProductID.String()
	}
	return k.ProductID.String() + "/" + k.VariantID.String()
}
