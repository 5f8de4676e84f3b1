package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ═══════════════════════════════════════════════════════════
// Main Product Model (GORM)
// ═══════════════════════════════════════════════════════════

// Product is a sellable perfume. Regular products carry one or more volume
// variants; special products (gift sets, testers) have no variants and are
// priced directly by Price.
type Product struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string           `json:"name" gorm:"not null;index"`
	Description string           `json:"description" gorm:"not null"`
	Brand       string           `json:"brand" gorm:"not null;index"`
	Price       decimal.Decimal  `json:"price" gorm:"type:numeric(12,2);not null;check:price >= 0"`
	Special     bool             `json:"special" gorm:"not null;default:false"`
	Status      string           `json:"status" gorm:"not null;check:status IN ('Active', 'Draft');index"`
	Variants    []ProductVariant `json:"variants,omitempty" gorm:"foreignKey:ProductID;references:ID"`
	CreatedAt   time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// ProductVariant is one purchasable form of a product (a bottle volume).
// Inactive variants stay visible in the catalog but are not orderable.
type ProductVariant struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index:idx_product_variants_product"`
	Volume    string          `json:"volume" gorm:"not null" example:"50ml"`
	SKU       string          `json:"sku" gorm:"not null;uniqueIndex"`
	BasePrice decimal.Decimal `json:"base_price" gorm:"type:numeric(12,2);not null;check:base_price >= 0"`
	Active    bool            `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (ProductVariant) TableName() string {
	return "product_variants"
}
