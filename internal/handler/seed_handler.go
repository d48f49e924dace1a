package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"spicedums/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seedService service.SeedService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seedService service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// SeedOrders godoc
// @Summary Generate random demo orders
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param count query int false "Number of orders (1-200)" default(10)
// @Success 200 {object} service.SeedResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed/orders [get]
func (h *SeedHandler) SeedOrders(c echo.Context) error {
	res, err := h.seedService.SeedOrders(c.Request().Context(), seedCount(c.QueryParam("count")))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, res)
}

// seedCount falls back to the default only when the parameter is missing or not a number.
func seedCount(raw string) int {
	count, err := strconv.Atoi(raw)
	if err != nil {
		return service.DefaultSeedCount
	}
	return service.ClampSeedCount(count)
}
