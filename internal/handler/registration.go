package handler

import (
	"net/http"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type RegistrationHandler struct {
	registrationService service.RegistrationService
}

func NewRegistrationHandler(registrationService service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	var req dto.CreateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	registration, err := h.registrationService.Register(ctx, claims, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registration)
}

func (h *RegistrationHandler) ListByTournament(c echo.Context) error {
	ctx := c.Request().Context()

	registrations, err := h.registrationService.ListByTournament(ctx, c.Param("tournamentId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) MyRegistrations(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	registrations, err := h.registrationService.ListByPlayer(ctx, claims.Subject)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	if err := h.registrationService.Cancel(ctx, claims, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Registration cancelled"})
}

// PlayerPreview is public: initials-level roster sample for a
// tournament landing page.
func (h *RegistrationHandler) PlayerPreview(c echo.Context) error {
	ctx := c.Request().Context()

	preview, err := h.registrationService.PlayerPreview(ctx, c.Param("tournamentId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, preview)
}
