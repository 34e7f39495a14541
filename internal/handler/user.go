package handler

import (
	"net/http"
	"strings"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Signup is the public registration endpoint.
func (h *UserHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Signup(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) CreateUser(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	users, err := h.userService.ListUsers(ctx, model.UserType(c.QueryParam("type")))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) SearchUsers(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if len(q) < 2 {
		return echo.NewHTTPError(http.StatusBadRequest, "query must be at least 2 characters")
	}

	users, err := h.userService.SearchUsers(ctx, q)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	user, err := h.userService.GetUser(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateUser(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := middleware.RequireAdmin(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(ctx, claims.Subject, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *UserHandler) GrantPasses(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	var req dto.GrantPassesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.GrantPasses(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.GrantPassesResponse{
		Message:          "Passes updated",
		MembershipPasses: user.MembershipPasses,
		EventFeePasses:   user.EventFeePasses,
	})
}
