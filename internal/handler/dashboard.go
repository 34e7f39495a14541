package handler

import (
	"net/http"

	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.dashboardService.Stats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Cities(c echo.Context) error {
	ctx := c.Request().Context()

	cities, err := h.dashboardService.CitiesWithTournaments(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cities)
}
