package handler

import (
	"net/http"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *AuthHandler) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	user, err := h.authService.GetProfile(ctx, claims.Subject)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}
