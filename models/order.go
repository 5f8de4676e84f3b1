package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the settled result of a checkout. Order creation itself lives in
// the order service; these rows exist here because quota accounting sums
// purchased quantity over them per period.
type Order struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID       `json:"user_id" gorm:"type:uuid;not null;index:idx_orders_user"`
	OrderNumber string          `json:"order_number" gorm:"not null;uniqueIndex"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status      string          `json:"status" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one purchased line of an order.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `json:"order_id" gorm:"type:uuid;not null;index:idx_order_items_order"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null"`
	VariantID *uuid.UUID      `json:"variant_id,omitempty" gorm:"type:uuid"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	Quantity  int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	Subtotal  decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate hook - auto-generate UUID v7
func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.Must(uuid.NewV7())
	}
	return nil
}

// TableName specifies the table name
func (OrderItem) TableName() string {
	return "order_items"
}
