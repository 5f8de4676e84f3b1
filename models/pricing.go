package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ═══════════════════════════════════════════════════════════
// Tier table (quantity-bracket pricing per variant)
// ═══════════════════════════════════════════════════════════

// PriceTier is one quantity bracket of a variant's tier table. Rows are
// owned by catalog management; the cart engine and the cart service only
// read them.
type PriceTier struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	VariantID   uuid.UUID       `json:"variant_id" gorm:"type:uuid;not null;index:idx_price_tiers_variant"`
	MinQuantity int             `json:"min_quantity" gorm:"not null;check:min_quantity > 0"`
	MaxQuantity *int            `json:"max_quantity,omitempty"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Label       *string         `json:"label,omitempty"`
	SortOrder   int             `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (t *PriceTier) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (PriceTier) TableName() string {
	return "variant_price_tiers"
}

// Valid reports whether the bracket is well formed. Malformed tiers are
// treated as non-matching by the resolver, never as fatal.
func (t PriceTier) Valid() bool {
	if t.MinQuantity < 1 {
		return false
	}
	if t.Price.IsNegative() {
		return false
	}
	if t.MaxQuantity != nil && *t.MaxQuantity < t.MinQuantity {
		return false
	}
	return true
}

// Matches reports whether quantity falls inside this bracket.
func (t PriceTier) Matches(quantity int) bool {
	if !t.Valid() {
		return false
	}
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || quantity <= *t.MaxQuantity
}

// VariantPriceProfile is the read-only snapshot of everything price
// resolution needs for one sellable variant. It is loaded once per editing
// session and treated as immutable until explicitly re-fetched.
type VariantPriceProfile struct {
	VariantID uuid.UUID       `json:"variant_id"`
	BasePrice decimal.Decimal `json:"base_price"`
	Tiers     []PriceTier     `json:"tiers"` // ordered by min_quantity descending
	Active    bool            `json:"active"`
}

// ═══════════════════════════════════════════════════════════
// Request Models
// ═══════════════════════════════════════════════════════════

// PriceTierInput is one bracket in a full-replace tier submission.
type PriceTierInput struct {
	MinQuantity int             `json:"min_quantity" binding:"required,min=1" example:"10"`
	MaxQuantity *int            `json:"max_quantity,omitempty" example:"99"`
	Price       decimal.Decimal `json:"price" binding:"required" example:"109000"`
	Label       *string         `json:"label,omitempty" example:"Wholesale"`
	SortOrder   int             `json:"sort_order" example:"1"`
}

// SetPriceTiersRequest replaces a variant's tier table atomically. An empty
// tier list is valid and means "base price only".
type SetPriceTiersRequest struct {
	Tiers []PriceTierInput `json:"tiers" binding:"dive"`
}
