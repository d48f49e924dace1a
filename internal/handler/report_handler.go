package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"spicedums/internal/model"
	"spicedums/internal/service"
)

// ReportHandler serves the sales report.
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ReportPageResponse wraps the report for the admin dashboard.
type ReportPageResponse struct {
	Report  model.Report `json:"report"`
	JSONURL string       `json:"jsonUrl"`
}

// Page godoc
// @Summary Admin report dashboard data
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param period query string false "day|week|month|year" default(week)
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} ReportPageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/reports [get]
func (h *ReportHandler) Page(c echo.Context) error {
	report := h.reports.Build(c.Request().Context(), reportQuery(c))
	jsonURL := "/admin/reports/json"
	if q := c.QueryString(); q != "" {
		jsonURL += "?" + q
	}
	return c.JSON(http.StatusOK, ReportPageResponse{Report: report, JSONURL: jsonURL})
}

// JSON godoc
// @Summary Sales report
// @Description Any section that cannot be read is returned zeroed.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param period query string false "day|week|month|year" default(week)
// @Param from query string false "YYYY-MM-DD"
// @Param to query string false "YYYY-MM-DD"
// @Success 200 {object} model.Report
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/reports/json [get]
func (h *ReportHandler) JSON(c echo.Context) error {
	return c.JSON(http.StatusOK, h.reports.Build(c.Request().Context(), reportQuery(c)))
}

func reportQuery(c echo.Context) service.ReportQuery {
	return service.ReportQuery{
		Period: c.QueryParam("period"),
		From:   c.QueryParam("from"),
		To:     c.QueryParam("to"),
	}
}
