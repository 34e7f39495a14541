package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"pkl-club-api/internal/client"
	"pkl-club-api/internal/config"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection, or each pooled conn gets its own :memory: db.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, client.AutoMigrate(db))

	return db
}

func claimsFor(user *model.User) *middleware.Claims {
	return &middleware.Claims{
		Username: user.Username,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
		},
	}
}

func createUser(t *testing.T, db *gorm.DB, user *model.User) *model.User {
	t.Helper()

	if user.Password == "" {
		user.Password = "not-a-real-hash"
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeStripe stands in for the Stripe API. Sessions get predictable
// ids; webhook payloads are decoded without signature checks, which are
// covered by the client package tests.
type fakeStripe struct {
	customersCreated int
	sessionsCreated  int
	lastParams       *client.CheckoutSessionParams
}

func (f *fakeStripe) CreateCustomer(ctx context.Context, email, name string) (string, error) {
	f.customersCreated++
	return fmt.Sprintf("cus_test_%d", f.customersCreated), nil
}

func (f *fakeStripe) CreateCheckoutSession(ctx context.Context, params *client.CheckoutSessionParams) (*client.CreateSessionResponse, error) {
	f.sessionsCreated++
	f.lastParams = params
	sessionID := fmt.Sprintf("cs_test_%d", f.sessionsCreated)
	return &client.CreateSessionResponse{
		SessionID: sessionID,
		URL:       "https://checkout.stripe.test/" + sessionID,
	}, nil
}

func (f *fakeStripe) ConstructWebhookEvent(payload []byte, sigHeader string) (*model.StripeEvent, error) {
	var event model.StripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

type paymentFixture struct {
	db      *gorm.DB
	stripe  *fakeStripe
	users   repository.UserRepository
	events  repository.EventRepository
	ledger  repository.PaymentRepository
	service PaymentService
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	stripe := &fakeStripe{}
	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)
	ledger := repository.NewPaymentRepository(db)

	cfg := &config.Stripe{
		MembershipPriceID: "price_membership",
		TournamentPriceID: "price_tournament",
	}

	return &paymentFixture{
		db:      db,
		stripe:  stripe,
		users:   users,
		events:  events,
		ledger:  ledger,
		service: NewPaymentService(stripe, cfg, users, ledger, events),
	}
}

func (f *paymentFixture) createApprovedEvent(t *testing.T, maxParticipants int) *model.Event {
	t.Helper()

	now := time.Now()
	event := &model.Event{
		OperatorID:      "op-1",
		Name:            "Spring Open",
		StartDate:       now.AddDate(0, 1, 0),
		EndDate:         now.AddDate(0, 1, 2),
		Status:          model.EventApproved,
		MaxParticipants: maxParticipants,
	}
	require.NoError(t, f.db.Create(event).Error)
	return event
}

func checkoutCompletedPayload(sessionID string, amount int64, subscription string) []byte {
	payload := fmt.Sprintf(`{
		"id": "evt_test_1",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": %q,
			"amount_total": %d,
			"currency": "usd",
			"payment_intent": "pi_test_1",
			"subscription": %q
		}}
	}`, sessionID, amount, subscription)
	return []byte(payload)
}
