package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"spicedums/internal/cache"
	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UserService reads user profiles.
type UserService interface {
	GetUser(ctx context.Context, id uint) (*model.User, error)
	ListCustomers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// GetUser returns the profile, served from cache when possible.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	_ = s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

// ListCustomers returns every account with the customer role.
func (s *userService) ListCustomers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListByRole(ctx, model.RoleCustomer)
}
