package handler

import (
	"net/http"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/repository"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type LocationHandler struct {
	locationService service.LocationService
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
	}
}

func (h *LocationHandler) ListCountries(c echo.Context) error {
	ctx := c.Request().Context()

	countries, err := h.locationService.ListCountries(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, countries)
}

func (h *LocationHandler) CreateCountry(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.CreateCountryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	country, err := h.locationService.CreateCountry(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, country)
}

func (h *LocationHandler) ListRegions(c echo.Context) error {
	ctx := c.Request().Context()

	regions, err := h.locationService.ListRegions(ctx, c.Param("countryCode"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, regions)
}

func (h *LocationHandler) CreateRegion(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.CreateRegionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	region, err := h.locationService.CreateRegion(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, region)
}

func (h *LocationHandler) ListCities(c echo.Context) error {
	ctx := c.Request().Context()

	filters := repository.CityFilters{
		CountryCode: c.QueryParam("country"),
		RegionCode:  c.QueryParam("region"),
		Code:        c.QueryParam("code"),
	}

	cities, err := h.locationService.ListCities(ctx, filters)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cities)
}

func (h *LocationHandler) CreateCity(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.CreateCityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	city, err := h.locationService.CreateCity(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, city)
}

func (h *LocationHandler) UpdateCityStatus(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.UpdateCityStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	city, err := h.locationService.UpdateCityStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, city)
}
