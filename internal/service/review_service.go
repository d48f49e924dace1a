package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/repository"
)

// HomeReviewLimit is how many reviews the home page shows.
const HomeReviewLimit = 6

// ReviewService lists and appends product reviews.
type ReviewService interface {
	Recent(ctx context.Context, limit int) []model.Review
	ForProduct(ctx context.Context, productID uint) []model.Review
	Add(ctx context.Context, userID, productID uint, rating int, comment string) (*model.Review, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	log      zerolog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository, log zerolog.Logger) ReviewService {
	return &reviewService{
		reviews:  reviews,
		products: products,
		log:      log.With().Str("component", "review").Logger(),
	}
}

func (s *reviewService) Recent(ctx context.Context, limit int) []model.Review {
	reviews, err := s.reviews.ListRecent(ctx, limit)
	if err != nil {
		s.log.Warn().Err(err).Msg("list recent reviews")
		return []model.Review{}
	}
	return reviews
}

func (s *reviewService) ForProduct(ctx context.Context, productID uint) []model.Review {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		s.log.Warn().Err(err).Uint("product_id", productID).Msg("list product reviews")
		return []model.Review{}
	}
	return reviews
}

// Add stores a review. A missing rating (0) becomes the default; others are clamped to 1..5.
func (s *reviewService) Add(ctx context.Context, userID, productID uint, rating int, comment string) (*model.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}

	review := &model.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    NormalizeRating(rating),
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

// NormalizeRating maps a submitted rating into the stored range.
func NormalizeRating(rating int) int {
	if rating == 0 {
		return model.DefaultRating
	}
	return min(max(rating, model.MinRating), model.MaxRating)
}
