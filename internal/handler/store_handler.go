package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/auth"
	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/service"
	"spicedums/internal/session"
)

// StoreHandler serves the public catalog pages.
type StoreHandler struct {
	catalog service.CatalogService
	reviews service.ReviewService
}

// NewStoreHandler creates a new store handler.
func NewStoreHandler(catalog service.CatalogService, reviews service.ReviewService) *StoreHandler {
	return &StoreHandler{catalog: catalog, reviews: reviews}
}

// HomeResponse is the home page payload.
type HomeResponse struct {
	Products  []model.ProductView `json:"products"`
	Reviews   []model.Review      `json:"reviews"`
	CartCount int                 `json:"cartCount"`
	User      *auth.Claims        `json:"user,omitempty"`
}

// ProductResponse is the product page payload.
type ProductResponse struct {
	Product   *model.ProductView `json:"product"`
	Reviews   []model.Review     `json:"reviews"`
	CartCount int                `json:"cartCount"`
}

// Home godoc
// @Summary Home page data
// @Tags store
// @Produce json
// @Success 200 {object} HomeResponse
// @Router / [get]
func (h *StoreHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, HomeResponse{
		Products:  h.catalog.ListProducts(ctx),
		Reviews:   h.reviews.Recent(ctx, service.HomeReviewLimit),
		CartCount: session.Cart(c).Count(),
		User:      auth.CurrentUser(c),
	})
}

// Product godoc
// @Summary Product detail with reviews
// @Tags store
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /product/{id} [get]
func (h *StoreHandler) Product(c echo.Context) error {
	id, err := paramID(c, "id", errors.ErrProductNotFound)
	if err != nil {
		return fail(err)
	}
	ctx := c.Request().Context()

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ProductResponse{
		Product:   product,
		Reviews:   h.reviews.ForProduct(ctx, id),
		CartCount: session.Cart(c).Count(),
	})
}
