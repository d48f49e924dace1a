package repository

import (
	"context"

	"gorm.io/gorm"

	"spicedums/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListRecent(ctx context.Context, limit int) ([]model.Review, error)
	ListByProduct(ctx context.Context, productID uint) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListRecent returns the newest reviews across the catalog with the reviewer's username.
func (r *reviewRepository) ListRecent(ctx context.Context, limit int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.withUsername(ctx, "JOIN").
		Order("reviews.created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

// ListByProduct returns a product's reviews, newest first. Reviews by removed users are kept.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.withUsername(ctx, "LEFT JOIN").
		Where("reviews.product_id = ?", productID).
		Order("reviews.created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) withUsername(ctx context.Context, join string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&model.Review{}).
		Select("reviews.*, users.username AS username").
		Joins(join + " users ON users.id = reviews.user_id")
}
