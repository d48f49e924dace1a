package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price and cost are stored with two decimals.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Cost        decimal.Decimal `json:"cost" gorm:"type:decimal(10,2);not null;default:0"`
	Image       *string         `json:"image" gorm:"size:255"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ImagePath returns the stored image path or "" when none is set.
func (p *Product) ImagePath() string {
	if p.Image == nil {
		return ""
	}
	return *p.Image
}

// ProductView is a product decorated with its resolved display image.
type ProductView struct {
	Product
	ImageResolved string `json:"imageResolved"`
}
