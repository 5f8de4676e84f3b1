package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ═══════════════════════════════════════════════════════════
// Persisted cart line (GORM)
// ═══════════════════════════════════════════════════════════

// CartLineRecord is the authoritative cart row. One row per user + product +
// variant combination; VariantID is NULL for special (no-variant) products.
type CartLineRecord struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_cart_lines_user"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_lines_key"`
	VariantID *uuid.UUID `json:"variant_id,omitempty" gorm:"type:uuid;uniqueIndex:idx_cart_lines_key"`
	Quantity  int        `json:"quantity" gorm:"not null;check:quantity > 0"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (l *CartLineRecord) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (CartLineRecord) TableName() string {
	return "cart_lines"
}

// ═══════════════════════════════════════════════════════════
// Wire / engine cart shapes
// ═══════════════════════════════════════════════════════════

// CartLine is one purchasable line as the engine and the API see it.
// LineID is nil until the line has been persisted; UnitPrice and Subtotal are
// derived snapshots, overwritten whenever an authoritative response arrives.
type CartLine struct {
	LineID    *uuid.UUID      `json:"line_id,omitempty"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Persisted reports whether the line is bound to an authoritative row.
func (l CartLine) Persisted() bool {
	return l.LineID != nil
}

// SameKey reports whether two lines refer to the same product+variant slot.
func (l CartLine) SameKey(productID uuid.UUID, variantID *uuid.UUID) bool {
	if l.ProductID != productID {
		return false
	}
	if l.VariantID == nil || variantID == nil {
		return l.VariantID == nil && variantID == nil
	}
	return *l.VariantID == *variantID
}

// QuotaInfo is the per-user, per-period purchase ceiling snapshot attached to
// authoritative cart responses. Advisory on the client; the server re-checks
// at order creation.
type QuotaInfo struct {
	Limit       int       `json:"limit"`
	Used        int       `json:"used"`
	Remaining   int       `json:"remaining"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// Cart is the unit of reconciliation. TotalPrice is the authoritative total
// from the last reconciliation; nil means the backend omitted it and display
// code must fall back to a locally computed sum.
type Cart struct {
	UserID     uuid.UUID        `json:"user_id"`
	Lines      []CartLine       `json:"lines"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
	Quota      *QuotaInfo       `json:"quota,omitempty"`
}

// Clone returns a deep copy. Reconciliation keeps separate optimistic and
// authoritative snapshots, so aliasing between them would be a bug.
func (c Cart) Clone() Cart {
	out := Cart{UserID: c.UserID}
	if len(c.Lines) > 0 {
		out.Lines = make([]CartLine, len(c.Lines))
		copy(out.Lines, c.Lines)
		for i, l := range c.Lines {
			if l.LineID != nil {
				id := *l.LineID
				out.Lines[i].LineID = &id
			}
			if l.VariantID != nil {
				id := *l.VariantID
				out.Lines[i].VariantID = &id
			}
		}
	}
	if c.TotalPrice != nil {
		t := *c.TotalPrice
		out.TotalPrice = &t
	}
	if c.Quota != nil {
		q := *c.Quota
		out.Quota = &q
	}
	return out
}

// Line returns the line for a product+variant slot, or nil. Value receiver
// so it can be called on a freshly returned cart copy; the pointer still
// addresses the copy's backing array.
func (c Cart) Line(productID uuid.UUID, variantID *uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].SameKey(productID, variantID) {
			return &c.Lines[i]
		}
	}
	return nil
}

// LineByID returns the persisted line with the given id, or nil.
func (c Cart) LineByID(lineID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].LineID != nil && *c.Lines[i].LineID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

// TotalQuantity sums requested quantity across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// ═══════════════════════════════════════════════════════════
// Request Models
// ═══════════════════════════════════════════════════════════

// AddCartLineRequest creates a new line.
type AddCartLineRequest struct {
	ProductID uuid.UUID  `json:"product_id" binding:"required"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	Quantity  int        `json:"quantity" binding:"required,min=1" example:"2"`
}

// UpdateCartLineRequest changes a persisted line's quantity. Zero is not a
// valid persisted quantity; deletion goes through the remove endpoint.
type UpdateCartLineRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1" example:"5"`
}
