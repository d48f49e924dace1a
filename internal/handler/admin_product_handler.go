package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/service"
)

const adminProductsPath = "/admin/products"

// AdminProductHandler manages the catalog.
type AdminProductHandler struct {
	catalog service.CatalogService
	images  *service.ImageResolver
}

// NewAdminProductHandler creates a new admin product handler.
func NewAdminProductHandler(catalog service.CatalogService, images *service.ImageResolver) *AdminProductHandler {
	return &AdminProductHandler{catalog: catalog, images: images}
}

// ProductRequest is the admin product form. Price and cost are decimal strings;
// a blank cost means 0. An uploaded image_file overrides image.
type ProductRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=255"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price" form:"price" validate:"required"`
	Cost        string `json:"cost" form:"cost"`
	Image       string `json:"image" form:"image" validate:"max=255"`
}

// List godoc
// @Summary List products for administration
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.ProductView
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/products [get]
func (h *AdminProductHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog.ListProducts(c.Request().Context()))
}

// Create godoc
// @Summary Create a product
// @Tags admin
// @Accept json,x-www-form-urlencoded,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/products [post]
func (h *AdminProductHandler) Create(c echo.Context) error {
	in, uploaded, err := h.bind(c)
	if err != nil {
		return failOrRedirect(c, err, adminProductsPath)
	}
	product, err := h.catalog.CreateProduct(c.Request().Context(), in)
	if err != nil {
		h.discard(uploaded)
		return failOrRedirect(c, err, adminProductsPath)
	}
	return h.done(c, http.StatusCreated, product)
}

// Update godoc
// @Summary Update a product
// @Description Leaving image empty keeps the current image.
// @Tags admin
// @Accept json,x-www-form-urlencoded,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id} [post]
func (h *AdminProductHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id", errors.ErrProductNotFound)
	if err != nil {
		return failOrRedirect(c, err, adminProductsPath)
	}
	in, uploaded, err := h.bind(c)
	if err != nil {
		return failOrRedirect(c, err, adminProductsPath)
	}
	product, err := h.catalog.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		h.discard(uploaded)
		return failOrRedirect(c, err, adminProductsPath)
	}
	return h.done(c, http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a product
// @Description Order history referencing the product is kept.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/products/{id}/delete [post]
func (h *AdminProductHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id", errors.ErrProductNotFound)
	if err != nil {
		return failOrRedirect(c, err, adminProductsPath)
	}
	if err := h.catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return failOrRedirect(c, err, adminProductsPath)
	}
	if WantsJSON(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return redirect(c, adminProductsPath)
}

// bind reads and validates the form, then stores image_file if present.
// uploaded is the stored file's path, or "" when nothing was uploaded.
func (h *AdminProductHandler) bind(c echo.Context) (in service.ProductInput, uploaded string, err error) {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return in, "", errors.ErrInvalidInput
	}
	if err := c.Validate(&req); err != nil {
		return in, "", fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}

	in = service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Cost:        req.Cost,
		Image:       req.Image,
	}
	if err := in.Validate(); err != nil {
		return in, "", err
	}

	fh, err := c.FormFile("image_file")
	if err != nil {
		return in, "", nil
	}
	src, err := fh.Open()
	if err != nil {
		return in, "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()
	uploaded, err = h.images.SaveUpload(fh.Filename, src)
	if err != nil {
		return in, "", err
	}
	in.Image = uploaded
	return in, uploaded, nil
}

// discard removes an upload whose product was never saved.
func (h *AdminProductHandler) discard(uploaded string) {
	if uploaded != "" {
		_ = h.images.RemoveUpload(uploaded)
	}
}

func (h *AdminProductHandler) done(c echo.Context, status int, product *model.Product) error {
	if WantsJSON(c) {
		return c.JSON(status, product)
	}
	return redirect(c, adminProductsPath)
}
