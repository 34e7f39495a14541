package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

type PlayerCategory string

const (
	MensSingles   PlayerCategory = "Men's Singles"
	WomensSingles PlayerCategory = "Women's Singles"
	MensDoubles   PlayerCategory = "Men's Doubles"
	WomensDoubles PlayerCategory = "Women's Doubles"
	MixedDoubles  PlayerCategory = "Mixed Doubles"
)

func ValidCategory(c PlayerCategory) bool {
	switch c {
	case MensSingles, WomensSingles, MensDoubles, WomensDoubles, MixedDoubles:
		return true
	}
	return false
}

// Registration ties a player (and optional doubles partner) to a
// tournament in one category. (tournament, player, category) is unique.
type Registration struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	TournamentID string `gorm:"size:36;not null;index;uniqueIndex:idx_tournament_player_category" json:"tournamentId"`
	PlayerID     string `gorm:"size:36;not null;index;uniqueIndex:idx_tournament_player_category" json:"playerId"`

	PlayerInitials string         `gorm:"size:4;not null" json:"playerInitials"`
	PlayerName     string         `gorm:"size:128;not null" json:"playerName"`
	Category       PlayerCategory `gorm:"size:32;not null;uniqueIndex:idx_tournament_player_category" json:"category"`

	Status RegistrationStatus `gorm:"size:16;default:'pending'" json:"status"`

	PartnerID   *string `gorm:"size:36" json:"partnerId,omitempty"`
	PartnerName string  `gorm:"size:128" json:"partnerName,omitempty"`

	Tournament *Tournament `gorm:"foreignKey:TournamentID" json:"tournament,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Registration) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
