package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"spicedums/internal/auth"
	"spicedums/internal/model"
	"spicedums/internal/service"
	"spicedums/internal/session"
)

// CheckoutHandler turns a cart or a single product into a recorded order.
type CheckoutHandler struct {
	orders service.OrderService
	phone  string
}

// NewCheckoutHandler creates a checkout handler handing orders over to phone.
func NewCheckoutHandler(orders service.OrderService, phone string) *CheckoutHandler {
	return &CheckoutHandler{orders: orders, phone: phone}
}

// CheckoutResponse is returned to data clients after a successful checkout.
type CheckoutResponse struct {
	Success     bool            `json:"success"`
	Total       decimal.Decimal `json:"total"`
	OrderID     uint            `json:"orderId"`
	CheckoutURL string          `json:"checkoutUrl"`
}

// Single godoc
// @Summary Buy one product directly
// @Tags checkout
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body CartRequest true "Product and quantity"
// @Success 200 {object} CheckoutResponse
// @Success 303 "Redirect to the chat checkout link"
// @Failure 400 {object} errors.ErrorResponse
// @Router /checkout [post]
func (h *CheckoutHandler) Single(c echo.Context) error {
	req, err := bindCartRequest(c)
	if err != nil {
		return failOrRedirect(c, err, back(c, "/"))
	}
	lines := []model.OrderLine{{ProductID: req.ProductID, Qty: req.Qty}}
	return h.checkout(c, lines, back(c, "/"), false)
}

// Cart godoc
// @Summary Check out the session cart
// @Description The cart is emptied once the order is recorded.
// @Tags checkout
// @Produce json
// @Success 200 {object} CheckoutResponse
// @Success 303 "Redirect to the chat checkout link"
// @Failure 400 {object} errors.ErrorResponse
// @Router /cart/checkout [post]
func (h *CheckoutHandler) Cart(c echo.Context) error {
	return h.checkout(c, session.Cart(c).Lines(), "/cart", true)
}

func (h *CheckoutHandler) checkout(c echo.Context, lines []model.OrderLine, onError string, clearCart bool) error {
	receipt, err := h.orders.Checkout(c.Request().Context(), auth.CurrentUserID(c), lines)
	if err != nil {
		return failOrRedirect(c, err, onError)
	}
	if clearCart {
		session.SetCart(c, model.Cart{})
	}

	link := service.CheckoutLink(h.phone, receipt)
	if WantsJSON(c) {
		return c.JSON(http.StatusOK, CheckoutResponse{
			Success:     true,
			Total:       receipt.Order.Total,
			OrderID:     receipt.Order.ID,
			CheckoutURL: link,
		})
	}
	return redirect(c, link)
}
