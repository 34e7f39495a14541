package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentType string

const (
	PaymentTypeMembership PaymentType = "membership"
	// PaymentTypeTournament covers both tournament and event registration
	// payments; event payments carry an EventID.
	PaymentTypeTournament PaymentType = "tournament"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PriceIDFeePass marks audit rows written when a user redeems an
// admin-granted event fee pass instead of going through Stripe.
const PriceIDFeePass = "FEE_PASS"

// Payment is the club's own ledger row for one checkout attempt,
// independent of Stripe's records. Exactly one row per session id;
// status moves pending -> completed/failed exactly once.
type Payment struct {
	ID     string      `gorm:"primaryKey;size:36" json:"id"`
	UserID string      `gorm:"size:36;index;not null" json:"userId"`
	Type   PaymentType `gorm:"size:16;not null" json:"type"`

	StripeSessionID       string  `gorm:"size:128;uniqueIndex;not null" json:"stripeSessionId"`
	StripePaymentIntentID *string `gorm:"size:128" json:"stripePaymentIntentId,omitempty"`
	StripePriceID         string  `gorm:"size:64" json:"stripePriceId"`

	// Amount in minor currency units (cents); 0 until the webhook
	// reports the settled total.
	Amount   int64         `gorm:"not null;default:0" json:"amount"`
	Currency string        `gorm:"size:8;default:'usd'" json:"currency"`
	Status   PaymentStatus `gorm:"size:16;index;default:'pending'" json:"status"`

	TournamentID   *string `gorm:"size:36" json:"tournamentId,omitempty"`
	EventID        *string `gorm:"size:36" json:"eventId,omitempty"`
	RegistrationID *string `gorm:"size:36" json:"registrationId,omitempty"`

	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
