package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserType string

const (
	UserTypeAdmin    UserType = "admin"
	UserTypePlayer   UserType = "player"
	UserTypeOperator UserType = "operator"
	UserTypeSponsor  UserType = "sponsor"
)

type MembershipStatus string

const (
	MembershipNone      MembershipStatus = "none"
	MembershipActive    MembershipStatus = "active"
	MembershipExpired   MembershipStatus = "expired"
	MembershipCancelled MembershipStatus = "cancelled"
)

// UnlimitedPasses is the sentinel for admin-granted infinite passes.
// Any other legal pass value is >= 0.
const UnlimitedPasses = -1

type User struct {
	ID        string   `gorm:"primaryKey;size:36" json:"id"`
	Username  string   `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password  string   `gorm:"size:128;not null" json:"-"`
	Email     string   `gorm:"size:128;uniqueIndex" json:"email"`
	UserType  UserType `gorm:"size:16;index;not null;default:'player'" json:"userType"`
	FirstName string   `gorm:"size:64" json:"firstName,omitempty"`
	LastName  string   `gorm:"size:64" json:"lastName,omitempty"`
	Phone     string   `gorm:"size:32" json:"phone,omitempty"`
	IsActive  bool     `gorm:"default:true" json:"isActive"`

	// Membership state, mutated only by the checkout initiator (pass grants)
	// and the webhook reconciler (activate/cancel/expire).
	MembershipStatus         MembershipStatus `gorm:"size:16;default:'none'" json:"membershipStatus"`
	MembershipExpires        *time.Time       `json:"membershipExpires,omitempty"`
	MembershipSubscriptionID *string          `gorm:"size:64;index" json:"membershipSubscriptionId,omitempty"`
	MembershipPasses         int              `gorm:"default:0" json:"membershipPasses"`
	EventFeePasses           int              `gorm:"default:0" json:"eventFeePasses"`

	// Created lazily on first checkout and cached.
	StripeCustomerID *string `gorm:"size:64" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName is "first last" when both are present, else the username.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}
