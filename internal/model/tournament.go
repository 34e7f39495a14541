package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentOngoing   TournamentStatus = "ongoing"
	TournamentCompleted TournamentStatus = "completed"
	TournamentCancelled TournamentStatus = "cancelled"
)

type Tournament struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	Name     string `gorm:"size:128;not null" json:"name"`
	CityID   string `gorm:"size:36;index;not null" json:"cityId"`
	CityCode string `gorm:"size:32;index" json:"cityCode"`

	OperatorID   *string `gorm:"size:36;index" json:"operatorId,omitempty"`
	OperatorName string  `gorm:"size:128" json:"operatorName,omitempty"`

	// Venue name, e.g. "Pasture Pickleball".
	Location string `gorm:"size:128;not null" json:"location"`

	StartDate time.Time        `gorm:"not null" json:"startDate"`
	EndDate   time.Time        `gorm:"not null" json:"endDate"`
	Status    TournamentStatus `gorm:"size:16;index;default:'upcoming'" json:"status"`

	TournamentURL string `gorm:"size:255" json:"tournamentUrl,omitempty"`

	Schedule []ScheduleDay `gorm:"foreignKey:TournamentID" json:"schedule,omitempty"`

	IsActive bool `gorm:"default:true" json:"isActive"`

	City *City `gorm:"foreignKey:CityID" json:"city,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tournament) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ScheduleDay is one day of the tournament schedule.
type ScheduleDay struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	TournamentID string    `gorm:"size:36;index;not null" json:"-"`
	Day          int       `gorm:"not null" json:"day"`
	Date         time.Time `gorm:"not null" json:"date"`
	Events       []string  `gorm:"serializer:json;type:text" json:"events"`
}
