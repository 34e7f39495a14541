package handler

import (
	"net/http"
	"strconv"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := requireOperator(c)
	if err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.CreateEvent(ctx, claims, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, event)
}

// ListApproved is the public event listing.
func (h *EventHandler) ListApproved(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}

	events, err := h.eventService.ListApproved(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) ListPending(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	events, err := h.eventService.ListPending(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) MyEvents(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := requireOperator(c)
	if err != nil {
		return err
	}

	events, err := h.eventService.ListByOperator(ctx, claims.Subject)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	ctx := c.Request().Context()

	event, err := h.eventService.GetEvent(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ReviewEvent(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := middleware.RequireAdmin(c)
	if err != nil {
		return err
	}

	var req dto.ReviewEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.ReviewEvent(ctx, claims, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) SetWinner(c echo.Context) error {
	ctx := c.Request().Context()

	claims, err := requireOperator(c)
	if err != nil {
		return err
	}

	var req dto.SetWinnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.SetWinner(ctx, claims, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

// RegisterPlayer is the direct (free/walk-up) registration path; paid
// entry goes through the payments checkout.
func (h *EventHandler) RegisterPlayer(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterPlayerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.eventService.RegisterPlayer(ctx, c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := middleware.RequireAdmin(c); err != nil {
		return err
	}

	stats, err := h.eventService.Stats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}
