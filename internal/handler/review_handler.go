package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/auth"
	"spicedums/internal/errors"
	"spicedums/internal/service"
)

// ReviewHandler accepts product reviews from logged-in users.
type ReviewHandler struct {
	reviews service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// ReviewRequest is a review form. A missing rating means 5.
type ReviewRequest struct {
	Rating  int    `json:"rating" form:"rating"`
	Comment string `json:"comment" form:"comment" validate:"max=2000"`
}

// Create godoc
// @Summary Add a review to a product
// @Tags reviews
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ReviewRequest true "Review"
// @Success 201 {object} model.Review
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /product/{id}/review [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	id, err := paramID(c, "id", errors.ErrProductNotFound)
	if err != nil {
		return failOrRedirect(c, err, "/")
	}
	user := auth.CurrentUser(c)
	if user == nil {
		return fail(errors.ErrUnauthorized)
	}

	productPage := fmt.Sprintf("/product/%d", id)
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return failOrRedirect(c, errors.ErrInvalidInput, productPage)
	}
	if err := c.Validate(&req); err != nil {
		return failOrRedirect(c, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err), productPage)
	}

	review, err := h.reviews.Add(c.Request().Context(), user.UserID, id, req.Rating, req.Comment)
	if err != nil {
		return failOrRedirect(c, err, productPage)
	}
	if WantsJSON(c) {
		return c.JSON(http.StatusCreated, review)
	}
	return redirect(c, productPage)
}
