package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/repository"
)

// CartService applies cart mutations. The cart is owned by the caller's session:
// every method takes the current cart and returns the new one.
type CartService interface {
	Add(ctx context.Context, cart model.Cart, productID uint, qty int) (model.Cart, error)
	Update(cart model.Cart, productID uint, qty int) model.Cart
	Remove(cart model.Cart, productID uint) model.Cart
	Clear() model.Cart
}

type cartService struct {
	products repository.ProductRepository
	images   *ImageResolver
}

// NewCartService creates a new cart service.
func NewCartService(products repository.ProductRepository, images *ImageResolver) CartService {
	return &cartService{products: products, images: images}
}

// Add puts qty (at least 1) of a product in the cart. Unknown products return ErrProductNotFound
// and leave the cart unchanged.
func (s *cartService) Add(ctx context.Context, cart model.Cart, productID uint, qty int) (model.Cart, error) {
	qty = max(qty, 1)
	if next, ok := cart.Increment(productID, qty); ok {
		return next, nil
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return cart, errors.ErrProductNotFound
		}
		return cart, fmt.Errorf("find product: %w", err)
	}
	return cart.Append(model.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     s.images.Resolve(product.ImagePath()),
		Qty:       qty,
	}), nil
}

// Update sets the quantity of a line; 0 or less removes it.
func (s *cartService) Update(cart model.Cart, productID uint, qty int) model.Cart {
	return cart.SetQty(productID, max(qty, 0))
}

func (s *cartService) Remove(cart model.Cart, productID uint) model.Cart {
	return cart.Remove(productID)
}

func (s *cartService) Clear() model.Cart {
	return model.Cart{}
}
