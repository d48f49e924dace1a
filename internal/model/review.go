package model

import "time"

// Review rating bounds.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Review is a customer's rating of a product.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Rating    int       `json:"rating" gorm:"not null;default:5"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Filled by joins on read; never migrated or written.
	Username string `json:"username,omitempty" gorm:"->;-:migration"`
}
