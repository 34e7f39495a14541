package handler

import (
	"io"
	"net/http"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) MembershipCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.CreateMembershipCheckout(ctx, claims.Subject, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) TournamentCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	var req dto.TournamentCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.CreateTournamentCheckout(ctx, claims.Subject, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) EventCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	var req dto.EventCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.paymentService.CreateEventCheckout(ctx, claims.Subject, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) MembershipStatus(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	status, err := h.paymentService.GetMembershipStatus(ctx, claims.Subject)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, status)
}

func (h *PaymentHandler) PaymentHistory(c echo.Context) error {
	ctx := c.Request().Context()

	claims := middleware.CurrentUser(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}

	payments, err := h.paymentService.GetPaymentHistory(ctx, claims.Subject)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payments)
}

// StripeWebhook receives processor callbacks. The raw body is needed
// for signature verification, so no Bind here.
func (h *PaymentHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}

	sigHeader := c.Request().Header.Get("Stripe-Signature")

	if err := h.paymentService.HandleWebhook(ctx, payload, sigHeader); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"received": true})
}
