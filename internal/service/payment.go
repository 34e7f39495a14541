package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"pkl-club-api/internal/client"
	"pkl-club-api/internal/config"
	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type PaymentService interface {
	HasActiveMembership(ctx context.Context, user *model.User) bool
	CreateMembershipCheckout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	CreateTournamentCheckout(ctx context.Context, userID string, req *dto.TournamentCheckoutRequest) (*dto.CheckoutResponse, error)
	CreateEventCheckout(ctx context.Context, userID string, req *dto.EventCheckoutRequest) (*dto.EventCheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
	GetMembershipStatus(ctx context.Context, userID string) (*dto.MembershipStatusResponse, error)
	GetPaymentHistory(ctx context.Context, userID string) ([]*model.Payment, error)
}

type paymentServiceImpl struct {
	stripeClient client.StripeClient
	stripeCfg    *config.Stripe
	userRepo     repository.UserRepository
	paymentRepo  repository.PaymentRepository
	eventRepo    repository.EventRepository
}

func NewPaymentService(
	stripeClient client.StripeClient,
	stripeCfg *config.Stripe,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	eventRepo repository.EventRepository,
) PaymentService {
	return &paymentServiceImpl{
		stripeClient: stripeClient,
		stripeCfg:    stripeCfg,
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		eventRepo:    eventRepo,
	}
}

// HasActiveMembership checks entitlement. Admin-granted passes win over
// everything, including expiry. This is also the lazy-expiry mechanism:
// an active membership whose expiry date has passed is flipped to
// expired here, not by a timer.
func (s *paymentServiceImpl) HasActiveMembership(ctx context.Context, user *model.User) bool {
	if user.MembershipPasses == model.UnlimitedPasses || user.MembershipPasses > 0 {
		return true
	}
	if user.MembershipStatus != model.MembershipActive {
		return false
	}
	if user.MembershipExpires != nil && user.MembershipExpires.Before(time.Now()) {
		err := s.userRepo.Updates(ctx, user.ID, map[string]interface{}{
			"membership_status": model.MembershipExpired,
		})
		if err != nil {
			log.Printf("mark membership expired for user %s: %v", user.ID, err)
		}
		user.MembershipStatus = model.MembershipExpired
		return false
	}
	return true
}

// ensureStripeCustomer returns the cached Stripe customer id, creating
// one on first use. Never creates a duplicate for the same user.
func (s *paymentServiceImpl) ensureStripeCustomer(ctx context.Context, user *model.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	customerID, err := s.stripeClient.CreateCustomer(ctx, user.Email, user.DisplayName())
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}

	err = s.userRepo.Updates(ctx, user.ID, map[string]interface{}{
		"stripe_customer_id": customerID,
	})
	if err != nil {
		return "", err
	}

	return customerID, nil
}

func (s *paymentServiceImpl) loadUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, err
	}
	return user, nil
}

func (s *paymentServiceImpl) CreateMembershipCheckout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.HasActiveMembership(ctx, user) {
		return nil, echo.NewHTTPError(http.StatusConflict, "Membership already active")
	}

	customerID, err := s.ensureStripeCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionParams{
		CustomerID: customerID,
		PriceID:    s.stripeCfg.MembershipPriceID,
		Mode:       client.ModeSubscription,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Metadata: map[string]string{
			"userId": user.ID,
			"type":   string(model.PaymentTypeMembership),
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:          user.ID,
		Type:            model.PaymentTypeMembership,
		StripeSessionID: session.SessionID,
		StripePriceID:   s.stripeCfg.MembershipPriceID,
		Status:          model.PaymentPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	}, nil
}

func (s *paymentServiceImpl) CreateTournamentCheckout(ctx context.Context, userID string, req *dto.TournamentCheckoutRequest) (*dto.CheckoutResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.HasActiveMembership(ctx, user) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Active membership required")
	}

	customerID, err := s.ensureStripeCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionParams{
		CustomerID: customerID,
		PriceID:    s.stripeCfg.TournamentPriceID,
		Mode:       client.ModePayment,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Metadata: map[string]string{
			"userId":         user.ID,
			"type":           string(model.PaymentTypeTournament),
			"tournamentId":   req.TournamentID,
			"registrationId": req.RegistrationID,
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:          user.ID,
		Type:            model.PaymentTypeTournament,
		StripeSessionID: session.SessionID,
		StripePriceID:   s.stripeCfg.TournamentPriceID,
		Status:          model.PaymentPending,
		TournamentID:    &req.TournamentID,
		RegistrationID:  &req.RegistrationID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	}, nil
}

// CreateEventCheckout either opens a Stripe session for the event fee
// or, when the user holds fee passes, bypasses payment entirely:
// consume one pass (unlimited is never decremented), register the
// player, and record a completed zero-amount ledger row for audit.
func (s *paymentServiceImpl) CreateEventCheckout(ctx context.Context, userID string, req *dto.EventCheckoutRequest) (*dto.EventCheckoutResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !s.HasActiveMembership(ctx, user) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Active membership required")
	}

	event, err := s.eventRepo.FindByID(ctx, req.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Event not found")
		}
		return nil, err
	}
	if event.Status != model.EventApproved {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Event is not open for registration")
	}
	for _, p := range event.RegisteredPlayers {
		if p.PlayerID != nil && *p.PlayerID == user.ID {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "Already registered for this event")
		}
	}
	if event.MaxParticipants > 0 && len(event.RegisteredPlayers) >= event.MaxParticipants {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Event is full")
	}

	if bypassed, err := s.redeemFeePass(ctx, user); err != nil {
		return nil, err
	} else if bypassed {
		s.registerPlayerToEvent(ctx, user.ID, event.ID)

		sessionID := fmt.Sprintf("pass_%d_%s", time.Now().Unix(), user.ID)
		payment := &model.Payment{
			UserID:          user.ID,
			Type:            model.PaymentTypeTournament,
			StripeSessionID: sessionID,
			StripePriceID:   model.PriceIDFeePass,
			Status:          model.PaymentCompleted,
			EventID:         &event.ID,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, err
		}

		return &dto.EventCheckoutResponse{
			Bypassed: true,
			Message:  "Registered using event fee pass",
		}, nil
	}

	customerID, err := s.ensureStripeCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	session, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionParams{
		CustomerID: customerID,
		PriceID:    s.stripeCfg.TournamentPriceID,
		Mode:       client.ModePayment,
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
		Metadata: map[string]string{
			"userId":  user.ID,
			"type":    string(model.PaymentTypeTournament),
			"eventId": event.ID,
		},
	})
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		UserID:          user.ID,
		Type:            model.PaymentTypeTournament,
		StripeSessionID: session.SessionID,
		StripePriceID:   s.stripeCfg.TournamentPriceID,
		Status:          model.PaymentPending,
		EventID:         &event.ID,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	return &dto.EventCheckoutResponse{
		SessionID: session.SessionID,
		URL:       session.URL,
	}, nil
}

// redeemFeePass reports whether the user paid with a pass. The
// unlimited sentinel bypasses without touching the counter; a finite
// counter is decremented atomically so two concurrent redemptions
// cannot spend the same pass.
func (s *paymentServiceImpl) redeemFeePass(ctx context.Context, user *model.User) (bool, error) {
	if user.EventFeePasses == model.UnlimitedPasses {
		return true, nil
	}
	if user.EventFeePasses <= 0 {
		return false, nil
	}
	return s.userRepo.ConsumeEventFeePass(ctx, user.ID)
}

// HandleWebhook verifies and dispatches one Stripe delivery. Signature
// or decode failures reject the delivery with no state change; Stripe's
// retry schedule is the only retry mechanism.
func (s *paymentServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.stripeClient.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch event.Type {
	case model.StripeEventCheckoutCompleted:
		session, err := event.CheckoutSession()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return s.handleCheckoutCompleted(ctx, session)

	case model.StripeEventSubscriptionDeleted:
		subscription, err := event.Subscription()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return s.handleSubscriptionDeleted(ctx, subscription)

	case model.StripeEventInvoiceFailed:
		invoice, err := event.Invoice()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		// Notification only; no automatic state change.
		if user, err := s.userRepo.FindBySubscriptionID(ctx, invoice.Subscription); err == nil {
			log.Printf("invoice %s payment failed for user %s", invoice.ID, user.ID)
		} else {
			log.Printf("invoice %s payment failed, subscription %s unmatched", invoice.ID, invoice.Subscription)
		}
		return nil

	default:
		log.Printf("unhandled stripe event type: %s", event.Type)
		return nil
	}
}

// handleCheckoutCompleted marks the ledger row completed and performs
// the downstream side effect. Every branch is idempotent, so a
// redelivered event changes nothing.
func (s *paymentServiceImpl) handleCheckoutCompleted(ctx context.Context, session *model.StripeCheckoutSession) error {
	payment, err := s.paymentRepo.FindBySessionID(ctx, session.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("webhook for unknown session %s, ignoring", session.ID)
			return nil
		}
		return err
	}

	payment, err = s.paymentRepo.MarkCompleted(ctx, session.ID, session.AmountTotal, session.PaymentIntent)
	if err != nil {
		return err
	}

	switch payment.Type {
	case model.PaymentTypeMembership:
		s.activateMembership(ctx, payment.UserID, session.Subscription)
	case model.PaymentTypeTournament:
		if payment.EventID != nil {
			s.registerPlayerToEvent(ctx, payment.UserID, *payment.EventID)
		} else {
			// Tournament-registration fee; the registration row already
			// exists from the registration flow.
			log.Printf("tournament payment %s completed for user %s", payment.ID, payment.UserID)
		}
	default:
		log.Printf("completed payment %s with unexpected type %s", payment.ID, payment.Type)
	}

	return nil
}

// activateMembership grants a fixed one-year term from receipt of the
// completion event. Re-activation on redelivery just re-writes the
// same state.
func (s *paymentServiceImpl) activateMembership(ctx context.Context, userID, subscriptionID string) {
	expires := time.Now().AddDate(1, 0, 0)
	fields := map[string]interface{}{
		"membership_status":  model.MembershipActive,
		"membership_expires": expires,
	}
	if subscriptionID != "" {
		fields["membership_subscription_id"] = subscriptionID
	}

	if err := s.userRepo.Updates(ctx, userID, fields); err != nil {
		log.Printf("activate membership for user %s: %v", userID, err)
	}
}

// handleSubscriptionDeleted cancels the membership tied to the
// subscription. Expiry date and pass counters are left untouched.
func (s *paymentServiceImpl) handleSubscriptionDeleted(ctx context.Context, subscription *model.StripeSubscription) error {
	user, err := s.userRepo.FindBySubscriptionID(ctx, subscription.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("subscription %s deleted but no matching user, ignoring", subscription.ID)
			return nil
		}
		return err
	}

	err = s.userRepo.Updates(ctx, user.ID, map[string]interface{}{
		"membership_status": model.MembershipCancelled,
	})
	if err != nil {
		return err
	}

	return nil
}

// registerPlayerToEvent is the shared side effect for the webhook and
// fee-pass paths. The payment already succeeded by the time this runs,
// so every failure is a logged no-op rather than an error: stranding a
// paid user behind a 500 would be worse than a missing roster entry.
func (s *paymentServiceImpl) registerPlayerToEvent(ctx context.Context, userID, eventID string) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		log.Printf("register player to event %s: user %s not found", eventID, userID)
		return
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		log.Printf("register player to event: event %s not found", eventID)
		return
	}

	for _, p := range event.RegisteredPlayers {
		if p.PlayerID != nil && *p.PlayerID == user.ID {
			log.Printf("player %s already registered for event %s", user.ID, eventID)
			return
		}
	}

	entry := &model.EventPlayer{
		EventID:      event.ID,
		PlayerID:     &user.ID,
		PlayerName:   user.DisplayName(),
		Email:        user.Email,
		RegisteredAt: time.Now(),
	}
	if err := s.eventRepo.AddPlayer(ctx, entry); err != nil {
		// Unique index fires when a concurrent delivery won the race.
		log.Printf("add player %s to event %s: %v", user.ID, eventID, err)
	}
}

func (s *paymentServiceImpl) GetMembershipStatus(ctx context.Context, userID string) (*dto.MembershipStatusResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := s.HasActiveMembership(ctx, user)

	return &dto.MembershipStatusResponse{
		Status:           user.MembershipStatus,
		Expires:          user.MembershipExpires,
		IsActive:         active,
		MembershipPasses: user.MembershipPasses,
		EventFeePasses:   user.EventFeePasses,
	}, nil
}

func (s *paymentServiceImpl) GetPaymentHistory(ctx context.Context, userID string) ([]*model.Payment, error) {
	return s.paymentRepo.FindByUser(ctx, userID)
}
