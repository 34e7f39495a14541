package handler

import (
	"net/http"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type TournamentHandler struct {
	tournamentService service.TournamentService
}

func NewTournamentHandler(tournamentService service.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: tournamentService,
	}
}

// requireOperator allows operators and admins.
func requireOperator(c echo.Context) (*middleware.Claims, error) {
	claims := middleware.CurrentUser(c)
	if claims == nil || (claims.UserType != model.UserTypeOperator && claims.UserType != model.UserTypeAdmin) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Operator access required")
	}
	return claims, nil
}

func (h *TournamentHandler) CreateTournament(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := requireOperator(c)
	if err != nil {
		return err
	}

	var req dto.CreateTournamentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tournament, err := h.tournamentService.CreateTournament(ctx, claims, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, tournament)
}

func (h *TournamentHandler) ListTournaments(c echo.Context) error {
	ctx := c.Request().Context()

	tournaments, err := h.tournamentService.ListTournaments(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tournaments)
}

func (h *TournamentHandler) GetTournament(c echo.Context) error {
	ctx := c.Request().Context()

	tournament, err := h.tournamentService.GetTournament(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tournament)
}

func (h *TournamentHandler) GetByCityCode(c echo.Context) error {
	ctx := c.Request().Context()

	tournament, err := h.tournamentService.GetByCityCode(ctx, c.Param("cityCode"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tournament)
}

func (h *TournamentHandler) UpdateTournament(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := requireOperator(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTournamentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	tournament, err := h.tournamentService.UpdateTournament(ctx, claims, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tournament)
}

func (h *TournamentHandler) DeleteTournament(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := requireOperator(c)
	if err != nil {
		return err
	}

	if err := h.tournamentService.DeleteTournament(ctx, claims, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Tournament deleted"})
}
