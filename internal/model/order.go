package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a recorded checkout. Total is fixed at creation time.
type Order struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    *uint           `json:"user_id" gorm:"index"`
	Total     decimal.Decimal `json:"total" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`

	// Relations
	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem snapshots the price and cost of a product at order time.
// ProductID is intentionally not a foreign key: products may be deleted later.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"order_id" gorm:"not null;index"`
	ProductID uint            `json:"product_id" gorm:"not null;index"`
	Qty       int             `json:"qty" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Cost      decimal.Decimal `json:"cost" gorm:"type:decimal(10,2);not null;default:0"`
}

// Subtotal returns price × qty.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}
