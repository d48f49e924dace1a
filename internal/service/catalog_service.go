package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"spicedums/internal/cache"
	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/repository"
)

const (
	productListCacheKey = "products:all"
	productListCacheTTL = 5 * time.Minute
)

// ProductInput is the raw admin form for a product.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Cost        string
	Image       string
}

// Validate checks the fields CreateProduct and UpdateProduct would reject.
func (in ProductInput) Validate() error {
	return applyProductInput(&model.Product{}, in)
}

// CatalogService reads and manages products.
type CatalogService interface {
	ListProducts(ctx context.Context) []model.ProductView
	GetProduct(ctx context.Context, id uint) (*model.ProductView, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
}

type catalogService struct {
	repo   repository.ProductRepository
	cache  *cache.Client
	images *ImageResolver
	log    zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, cache *cache.Client, images *ImageResolver, log zerolog.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		cache:  cache,
		images: images,
		log:    log.With().Str("component", "catalog").Logger(),
	}
}

// ListProducts returns the catalog with resolved images. Store failures yield an empty list.
func (s *catalogService) ListProducts(ctx context.Context) []model.ProductView {
	var products []model.Product
	if !s.cache.GetJSON(ctx, productListCacheKey, &products) {
		var err error
		products, err = s.repo.List(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("list products")
			return []model.ProductView{}
		}
		_ = s.cache.SetJSON(ctx, productListCacheKey, products, productListCacheTTL)
	}

	views := make([]model.ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, s.view(p))
	}
	return views
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (*model.ProductView, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	v := s.view(*product)
	return &v, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	product := &model.Product{}
	if err := applyProductInput(product, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// UpdateProduct overwrites a product. An empty Image keeps the current one.
func (s *catalogService) UpdateProduct(ctx context.Context, id uint, in ProductInput) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if strings.TrimSpace(in.Image) == "" {
		in.Image = product.ImagePath()
	}
	if err := applyProductInput(product, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, id uint) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !deleted {
		return errors.ErrProductNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *catalogService) view(p model.Product) model.ProductView {
	return model.ProductView{Product: p, ImageResolved: s.images.Resolve(p.ImagePath())}
}

func (s *catalogService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, productListCacheKey)
}

func applyProductInput(p *model.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", errors.ErrInvalidInput)
	}
	price, err := parseMoney(in.Price, false)
	if err != nil {
		return err
	}
	cost, err := parseMoney(in.Cost, true)
	if err != nil {
		return err
	}

	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Price = price
	p.Cost = cost
	p.Image = nil
	if img := strings.TrimSpace(in.Image); img != "" {
		p.Image = &img
	}
	return nil
}

// parseMoney parses a non-negative amount rounded to two decimals.
func parseMoney(raw string, blankIsZero bool) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" && blankIsZero {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.Zero, errors.ErrInvalidPrice
	}
	return d.Round(2), nil
}
