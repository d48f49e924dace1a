package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/errors"
	"spicedums/internal/service"
)

// AdminOrderHandler exposes recorded orders to admins.
type AdminOrderHandler struct {
	orders service.OrderService
}

// NewAdminOrderHandler creates a new admin order handler.
func NewAdminOrderHandler(orders service.OrderService) *AdminOrderHandler {
	return &AdminOrderHandler{orders: orders}
}

// Get godoc
// @Summary Order with items
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id} [get]
func (h *AdminOrderHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id", errors.ErrOrderNotFound)
	if err != nil {
		return fail(err)
	}
	order, err := h.orders.GetOrder(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, order)
}

// Delete godoc
// @Summary Delete an order and its items
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/orders/{id}/delete [post]
func (h *AdminOrderHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id", errors.ErrOrderNotFound)
	if err != nil {
		return failOrRedirect(c, err, "/admin/reports")
	}
	if err := h.orders.DeleteOrder(c.Request().Context(), id); err != nil {
		return failOrRedirect(c, err, "/admin/reports")
	}
	if WantsJSON(c) {
		return c.NoContent(http.StatusNoContent)
	}
	return redirect(c, back(c, "/admin/reports"))
}
