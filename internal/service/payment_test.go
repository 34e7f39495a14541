package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func checkoutReq() *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		SuccessURL: "https://club.test/success",
		CancelURL:  "https://club.test/cancel",
	}
}

func requireHTTPError(t *testing.T, err error, code int) {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, code, httpErr.Code)
}

func TestHasActiveMembershipUnlimitedPasses(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -30)
	user := createUser(t, f.db, &model.User{
		Username:          "passholder",
		Email:             "passholder@club.test",
		MembershipStatus:  model.MembershipExpired,
		MembershipExpires: &past,
		MembershipPasses:  model.UnlimitedPasses,
	})

	// Passes win regardless of status and expiry.
	require.True(t, f.service.HasActiveMembership(ctx, user))
}

func TestHasActiveMembershipLazyExpiry(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	user := createUser(t, f.db, &model.User{
		Username:          "lapsed",
		Email:             "lapsed@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &past,
	})

	require.False(t, f.service.HasActiveMembership(ctx, user))

	// The check itself persisted the expiry.
	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.MembershipExpired, stored.MembershipStatus)
}

func TestHasActiveMembershipStillValid(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(0, 6, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "member",
		Email:             "member@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
	})

	require.True(t, f.service.HasActiveMembership(ctx, user))
}

func TestMembershipCheckoutConflictWhenActive(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(1, 0, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "member",
		Email:             "member@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
	})

	_, err := f.service.CreateMembershipCheckout(ctx, user.ID, checkoutReq())
	requireHTTPError(t, err, http.StatusConflict)
	require.Zero(t, f.stripe.sessionsCreated)
}

func TestMembershipCheckoutCreatesPendingRow(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	user := createUser(t, f.db, &model.User{
		Username: "newbie",
		Email:    "newbie@club.test",
	})

	resp, err := f.service.CreateMembershipCheckout(ctx, user.ID, checkoutReq())
	require.NoError(t, err)
	require.NotEmpty(t, resp.SessionID)
	require.NotEmpty(t, resp.URL)

	payment, err := f.ledger.FindBySessionID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, payment.Status)
	require.Equal(t, model.PaymentTypeMembership, payment.Type)
	require.Zero(t, payment.Amount)
}

func TestStripeCustomerCreatedOnceAndCached(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	user := createUser(t, f.db, &model.User{
		Username: "newbie",
		Email:    "newbie@club.test",
	})

	_, err := f.service.CreateMembershipCheckout(ctx, user.ID, checkoutReq())
	require.NoError(t, err)
	_, err = f.service.CreateMembershipCheckout(ctx, user.ID, checkoutReq())
	require.NoError(t, err)

	require.Equal(t, 1, f.stripe.customersCreated)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.StripeCustomerID)
}

func TestEventCheckoutRequiresMembership(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	user := createUser(t, f.db, &model.User{
		Username: "outsider",
		Email:    "outsider@club.test",
	})
	event := f.createApprovedEvent(t, 0)

	_, err := f.service.CreateEventCheckout(ctx, user.ID, &dto.EventCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		EventID:         event.ID,
	})
	requireHTTPError(t, err, http.StatusForbidden)

	// No ledger row may exist after a refused checkout.
	payments, err := f.ledger.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, payments)
}

func TestEventCheckoutFeePassBypass(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(1, 0, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "passuser",
		FirstName:         "Pat",
		LastName:          "Lee",
		Email:             "passuser@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
		EventFeePasses:    3,
	})
	event := f.createApprovedEvent(t, 0)

	resp, err := f.service.CreateEventCheckout(ctx, user.ID, &dto.EventCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		EventID:         event.ID,
	})
	require.NoError(t, err)
	require.True(t, resp.Bypassed)
	require.Empty(t, resp.URL)
	require.Zero(t, f.stripe.sessionsCreated)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stored.EventFeePasses)

	// Audit row: completed, zero amount, synthetic session id.
	payments, err := f.ledger.FindByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.Equal(t, model.PaymentCompleted, payments[0].Status)
	require.Zero(t, payments[0].Amount)
	require.Equal(t, model.PriceIDFeePass, payments[0].StripePriceID)
	require.True(t, strings.HasPrefix(payments[0].StripeSessionID, "pass_"))

	reloaded, err := f.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.RegisteredPlayers, 1)
	require.Equal(t, "Pat Lee", reloaded.RegisteredPlayers[0].PlayerName)
}

func TestEventCheckoutUnlimitedFeePassNotDecremented(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(1, 0, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "vip",
		Email:             "vip@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
		EventFeePasses:    model.UnlimitedPasses,
	})
	event := f.createApprovedEvent(t, 0)

	resp, err := f.service.CreateEventCheckout(ctx, user.ID, &dto.EventCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		EventID:         event.ID,
	})
	require.NoError(t, err)
	require.True(t, resp.Bypassed)

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.UnlimitedPasses, stored.EventFeePasses)
}

func TestEventCheckoutFullEvent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(1, 0, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "latecomer",
		Email:             "latecomer@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
	})
	event := f.createApprovedEvent(t, 1)

	other := "someone-else"
	require.NoError(t, f.db.Create(&model.EventPlayer{
		EventID:      event.ID,
		PlayerID:     &other,
		PlayerName:   "Someone Else",
		RegisteredAt: time.Now(),
	}).Error)

	_, err := f.service.CreateEventCheckout(ctx, user.ID, &dto.EventCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		EventID:         event.ID,
	})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestCheckoutThenWebhookCompletesAndRegisters(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	tomorrow := time.Now().AddDate(0, 0, 1)
	user := createUser(t, f.db, &model.User{
		Username:          "player1",
		FirstName:         "Ann",
		LastName:          "Cole",
		Email:             "player1@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &tomorrow,
	})
	event := f.createApprovedEvent(t, 2)

	resp, err := f.service.CreateEventCheckout(ctx, user.ID, &dto.EventCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		EventID:         event.ID,
	})
	require.NoError(t, err)
	require.False(t, resp.Bypassed)

	payment, err := f.ledger.FindBySessionID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, payment.Status)
	require.Equal(t, model.PaymentTypeTournament, payment.Type)
	require.Zero(t, payment.Amount)

	payload := checkoutCompletedPayload(resp.SessionID, 2500, "")
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))

	payment, err = f.ledger.FindBySessionID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentCompleted, payment.Status)
	require.Equal(t, int64(2500), payment.Amount)

	reloaded, err := f.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.RegisteredPlayers, 1)
	require.Equal(t, "Ann Cole", reloaded.RegisteredPlayers[0].PlayerName)
}

func TestWebhookTournamentPaymentWithoutEvent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(0, 6, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "entrant",
		Email:             "entrant@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
	})

	resp, err := f.service.CreateTournamentCheckout(ctx, user.ID, &dto.TournamentCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		TournamentID:    "tournament-1",
		RegistrationID:  "registration-1",
	})
	require.NoError(t, err)

	// The registration row was created before checkout, so completion
	// only settles the ledger.
	payload := checkoutCompletedPayload(resp.SessionID, 1500, "")
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))

	payment, err := f.ledger.FindBySessionID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentCompleted, payment.Status)
	require.Equal(t, int64(1500), payment.Amount)
	require.Nil(t, payment.EventID)
}

func TestWebhookRedeliveryIsIdempotent(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	tomorrow := time.Now().AddDate(0, 0, 1)
	user := createUser(t, f.db, &model.User{
		Username:          "player1",
		Email:             "player1@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &tomorrow,
	})
	event := f.createApprovedEvent(t, 0)

	resp, err := f.service.CreateEventCheckout(ctx, user.ID, &dto.EventCheckoutRequest{
		CheckoutRequest: *checkoutReq(),
		EventID:         event.ID,
	})
	require.NoError(t, err)

	payload := checkoutCompletedPayload(resp.SessionID, 2500, "")
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))

	reloaded, err := f.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.RegisteredPlayers, 1)

	payment, err := f.ledger.FindBySessionID(ctx, resp.SessionID)
	require.NoError(t, err)
	require.Equal(t, model.PaymentCompleted, payment.Status)
	require.Equal(t, int64(2500), payment.Amount)
}

func TestWebhookMembershipActivation(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	user := createUser(t, f.db, &model.User{
		Username: "joiner",
		Email:    "joiner@club.test",
	})

	resp, err := f.service.CreateMembershipCheckout(ctx, user.ID, checkoutReq())
	require.NoError(t, err)

	payload := checkoutCompletedPayload(resp.SessionID, 9900, "sub_test_1")
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.MembershipActive, stored.MembershipStatus)
	require.NotNil(t, stored.MembershipSubscriptionID)
	require.Equal(t, "sub_test_1", *stored.MembershipSubscriptionID)

	// Expiry is a fixed one-year term from receipt.
	require.NotNil(t, stored.MembershipExpires)
	expected := time.Now().AddDate(1, 0, 0)
	require.WithinDuration(t, expected, *stored.MembershipExpires, time.Minute)
}

func TestWebhookSubscriptionDeletedCancelsMembership(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(0, 8, 0)
	subID := "sub_test_9"
	user := createUser(t, f.db, &model.User{
		Username:                 "quitter",
		Email:                    "quitter@club.test",
		MembershipStatus:         model.MembershipActive,
		MembershipExpires:        &future,
		MembershipSubscriptionID: &subID,
		EventFeePasses:           2,
	})

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_2",
		"type": "customer.subscription.deleted",
		"data": {"object": {"id": %q, "status": "canceled"}}
	}`, subID))
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))

	stored, err := f.users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, model.MembershipCancelled, stored.MembershipStatus)

	// Cancellation touches only the status.
	require.NotNil(t, stored.MembershipExpires)
	require.WithinDuration(t, future, *stored.MembershipExpires, time.Second)
	require.Equal(t, 2, stored.EventFeePasses)
}

func TestWebhookUnknownSessionIsIgnored(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	payload := checkoutCompletedPayload("cs_never_created", 1000, "")
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))
}

func TestWebhookUnhandledTypeIsIgnored(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	payload := []byte(`{"id": "evt_x", "type": "charge.refunded", "data": {"object": {}}}`)
	require.NoError(t, f.service.HandleWebhook(ctx, payload, "sig"))
}

func TestGetMembershipStatus(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	future := time.Now().AddDate(0, 3, 0)
	user := createUser(t, f.db, &model.User{
		Username:          "member",
		Email:             "member@club.test",
		MembershipStatus:  model.MembershipActive,
		MembershipExpires: &future,
		EventFeePasses:    1,
	})

	status, err := f.service.GetMembershipStatus(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, status.IsActive)
	require.Equal(t, model.MembershipActive, status.Status)
	require.Equal(t, 1, status.EventFeePasses)
}
