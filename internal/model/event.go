package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventApproved  EventStatus = "approved"
	EventRejected  EventStatus = "rejected"
	EventCompleted EventStatus = "completed"
)

// EventLocation is the venue block embedded on each event.
type EventLocation struct {
	Country   string `gorm:"size:64" json:"country"`
	Region    string `gorm:"size:64" json:"region,omitempty"`
	State     string `gorm:"size:64" json:"state"`
	CourtName string `gorm:"size:128" json:"courtName"`
	City      string `gorm:"size:64" json:"city,omitempty"`
	Address   string `gorm:"size:255" json:"address,omitempty"`
}

// Event is an operator-submitted application. Admins review pending
// applications; admin-created events are approved immediately.
type Event struct {
	ID         string        `gorm:"primaryKey;size:36" json:"id"`
	OperatorID string        `gorm:"size:36;index;not null" json:"operatorId"`
	Name       string        `gorm:"size:128;not null" json:"name"`
	Location   EventLocation `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	TournamentSite string    `gorm:"size:255" json:"tournamentSite,omitempty"`
	StartDate      time.Time `gorm:"not null" json:"startDate"`
	EndDate        time.Time `gorm:"not null" json:"endDate"`

	Days              []EventDay    `gorm:"foreignKey:EventID" json:"dataPerDay,omitempty"`
	RegisteredPlayers []EventPlayer `gorm:"foreignKey:EventID" json:"registeredPlayers,omitempty"`

	Status          EventStatus `gorm:"size:16;index;default:'pending'" json:"status"`
	Description     string      `gorm:"type:text" json:"description,omitempty"`
	MaxParticipants int         `json:"maxParticipants,omitempty"`
	EntryFee        float64     `json:"entryFee,omitempty"`

	AdminNotes string     `gorm:"type:text" json:"adminNotes,omitempty"`
	ReviewedBy *string    `gorm:"size:36" json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`

	// Winner block; DeclaredAt set means the winner is final.
	WinnerPlayerID   *string    `gorm:"size:36" json:"winnerPlayerId,omitempty"`
	WinnerName       string     `gorm:"size:128" json:"winnerName,omitempty"`
	WinnerDeclaredAt *time.Time `json:"winnerDeclaredAt,omitempty"`
	WinnerDeclaredBy *string    `gorm:"size:36" json:"winnerDeclaredBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// HasWinner reports whether the winner has been declared (irreversible).
func (e *Event) HasWinner() bool {
	return e.WinnerDeclaredAt != nil
}

// EventDay describes one day of a multi-day event.
type EventDay struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	EventID     string    `gorm:"size:36;index;not null" json:"-"`
	Date        time.Time `gorm:"not null" json:"date"`
	Title       string    `gorm:"size:128" json:"title,omitempty"`
	StartTime   string    `gorm:"size:8" json:"startTime,omitempty"`
	EndTime     string    `gorm:"size:8" json:"endTime,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
}

// EventPlayer is one roster entry. PlayerID is nil for unauthenticated
// walk-up registrations; when present, (event, player) is unique. The
// unique index backstops the service-level duplicate check.
type EventPlayer struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	EventID      string    `gorm:"size:36;index;not null;uniqueIndex:idx_event_player" json:"-"`
	PlayerID     *string   `gorm:"size:36;uniqueIndex:idx_event_player" json:"playerId,omitempty"`
	PlayerName   string    `gorm:"size:128;not null" json:"playerName"`
	Email        string    `gorm:"size:128" json:"email,omitempty"`
	RegisteredAt time.Time `json:"registeredAt"`
}
