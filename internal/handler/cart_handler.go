package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/errors"
	"spicedums/internal/model"
	"spicedums/internal/service"
	"spicedums/internal/session"
)

// CartHandler exposes the session cart.
type CartHandler struct {
	carts service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// CartRequest identifies a cart line. Qty is ignored by remove and clear.
type CartRequest struct {
	ProductID uint `json:"product_id" form:"product_id"`
	Qty       int  `json:"qty" form:"qty"`
}

// Get godoc
// @Summary Current cart
// @Tags cart
// @Produce json
// @Success 200 {object} model.CartView
// @Router /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, session.Cart(c).View())
}

// Add godoc
// @Summary Add a product to the cart
// @Description Quantity defaults to 1 and adds up for products already in the cart.
// @Tags cart
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body CartRequest true "Cart line"
// @Success 200 {object} model.CartView
// @Success 303 "Redirect for browser clients"
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/add [post]
func (h *CartHandler) Add(c echo.Context) error {
	req, err := bindCartRequest(c)
	if err != nil {
		return failOrRedirect(c, err, back(c, "/cart"))
	}

	cart, err := h.carts.Add(c.Request().Context(), session.Cart(c), req.ProductID, req.Qty)
	if err != nil {
		if stderrors.Is(err, errors.ErrProductNotFound) && !WantsJSON(c) {
			return redirect(c, "/")
		}
		return fail(err)
	}
	return h.respond(c, cart)
}

// Update godoc
// @Summary Set the quantity of a cart line
// @Description A quantity of 0 removes the line. Unknown products are ignored.
// @Tags cart
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body CartRequest true "Cart line"
// @Success 200 {object} model.CartView
// @Router /cart/update [post]
func (h *CartHandler) Update(c echo.Context) error {
	req, err := bindCartRequest(c)
	if err != nil {
		return failOrRedirect(c, err, back(c, "/cart"))
	}
	return h.respond(c, h.carts.Update(session.Cart(c), req.ProductID, req.Qty))
}

// Remove godoc
// @Summary Remove a product from the cart
// @Tags cart
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body CartRequest true "Cart line"
// @Success 200 {object} model.CartView
// @Router /cart/remove [post]
func (h *CartHandler) Remove(c echo.Context) error {
	req, err := bindCartRequest(c)
	if err != nil {
		return failOrRedirect(c, err, back(c, "/cart"))
	}
	return h.respond(c, h.carts.Remove(session.Cart(c), req.ProductID))
}

// Clear godoc
// @Summary Empty the cart
// @Tags cart
// @Produce json
// @Success 200 {object} model.CartView
// @Router /cart/clear [post]
func (h *CartHandler) Clear(c echo.Context) error {
	return h.respond(c, h.carts.Clear())
}

func (h *CartHandler) respond(c echo.Context, cart model.Cart) error {
	session.SetCart(c, cart)
	if WantsJSON(c) {
		return c.JSON(http.StatusOK, cart.View())
	}
	return redirect(c, back(c, "/cart"))
}

func bindCartRequest(c echo.Context) (CartRequest, error) {
	var req CartRequest
	if err := c.Bind(&req); err != nil {
		return req, fmt.Errorf("%w: product_id and qty must be whole numbers", errors.ErrInvalidInput)
	}
	return req, nil
}
