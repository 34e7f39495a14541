package dto

import (
	"time"

	"pkl-club-api/internal/model"
)

// -------- auth --------

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	UserID      string         `json:"userId"`
	Username    string         `json:"username"`
	UserType    model.UserType `json:"userType"`
	FirstName   string         `json:"firstName,omitempty"`
	LastName    string         `json:"lastName,omitempty"`
	Email       string         `json:"email,omitempty"`
}

// -------- users --------

type CreateUserRequest struct {
	Username  string         `json:"username" validate:"required"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required,min=6"`
	UserType  model.UserType `json:"userType" validate:"required,oneof=player operator sponsor admin"`
	FirstName string         `json:"firstName,omitempty"`
	LastName  string         `json:"lastName,omitempty"`
	Phone     string         `json:"phone,omitempty"`
}

type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// GrantPassesRequest sets absolute pass counts; -1 means unlimited.
type GrantPassesRequest struct {
	MembershipPasses *int `json:"membershipPasses,omitempty" validate:"omitempty,min=-1"`
	EventFeePasses   *int `json:"eventFeePasses,omitempty" validate:"omitempty,min=-1"`
}

type GrantPassesResponse struct {
	Message          string `json:"message"`
	MembershipPasses int    `json:"membershipPasses"`
	EventFeePasses   int    `json:"eventFeePasses"`
}

// -------- locations --------

type CreateCountryRequest struct {
	Code     string `json:"code" validate:"required"`
	Name     string `json:"name" validate:"required"`
	FlagCode string `json:"flagCode" validate:"required"`
}

type CreateRegionRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required"`
}

type CreateCityRequest struct {
	Code        string `json:"code" validate:"required"`
	Name        string `json:"name" validate:"required"`
	RegionCode  string `json:"regionCode" validate:"required"`
	CountryCode string `json:"countryCode" validate:"required"`
}

type UpdateCityStatusRequest struct {
	Status model.CityStatus `json:"status" validate:"required,oneof=activated open"`
}

type CitySearchResponse struct {
	Activated []*model.City `json:"activated"`
	Open      []*model.City `json:"open"`
}

// -------- tournaments --------

type ScheduleDayRequest struct {
	Day    int       `json:"day" validate:"required,min=1"`
	Date   time.Time `json:"date" validate:"required"`
	Events []string  `json:"events"`
}

type CreateTournamentRequest struct {
	Name          string               `json:"name" validate:"required"`
	CityCode      string               `json:"cityCode" validate:"required"`
	Location      string               `json:"location" validate:"required"`
	StartDate     time.Time            `json:"startDate" validate:"required"`
	EndDate       time.Time            `json:"endDate" validate:"required"`
	TournamentURL string               `json:"tournamentUrl,omitempty"`
	Schedule      []ScheduleDayRequest `json:"schedule,omitempty" validate:"dive"`
}

type UpdateTournamentRequest struct {
	Name      *string    `json:"name,omitempty"`
	Location  *string    `json:"location,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

// -------- registrations --------

type CreateRegistrationRequest struct {
	TournamentID string               `json:"tournamentId" validate:"required"`
	Category     model.PlayerCategory `json:"category" validate:"required"`
	PartnerID    string               `json:"partnerId,omitempty"`
}

type UpdateRegistrationStatusRequest struct {
	Status model.RegistrationStatus `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

type PlayerPreviewEntry struct {
	Initials string `json:"initials"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type PlayerPreviewResponse struct {
	Players []PlayerPreviewEntry `json:"players"`
	Total   int64                `json:"total"`
}

// -------- events --------

type EventDayRequest struct {
	Date        time.Time `json:"date" validate:"required"`
	Title       string    `json:"title,omitempty"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	Description string    `json:"description,omitempty"`
}

type EventLocationRequest struct {
	Country   string `json:"country" validate:"required"`
	Region    string `json:"region,omitempty"`
	State     string `json:"state" validate:"required"`
	CourtName string `json:"courtName" validate:"required"`
	City      string `json:"city,omitempty"`
	Address   string `json:"address,omitempty"`
}

type CreateEventRequest struct {
	Name            string               `json:"name" validate:"required"`
	Location        EventLocationRequest `json:"location" validate:"required"`
	TournamentSite  string               `json:"tournamentSite,omitempty"`
	StartDate       time.Time            `json:"startDate" validate:"required"`
	EndDate         time.Time            `json:"endDate" validate:"required"`
	DataPerDay      []EventDayRequest    `json:"dataPerDay,omitempty" validate:"dive"`
	Description     string               `json:"description,omitempty"`
	MaxParticipants int                  `json:"maxParticipants,omitempty" validate:"omitempty,min=1"`
	EntryFee        float64              `json:"entryFee,omitempty" validate:"omitempty,min=0"`
}

type ReviewEventRequest struct {
	Status     model.EventStatus `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes string            `json:"adminNotes,omitempty"`
}

type SetWinnerRequest struct {
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName" validate:"required"`
}

type RegisterPlayerRequest struct {
	PlayerID   string `json:"playerId,omitempty"`
	PlayerName string `json:"playerName" validate:"required"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
}

type EventStatsResponse struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Completed int64 `json:"completed"`
	Rejected  int64 `json:"rejected"`
}

// -------- payments --------

type CheckoutRequest struct {
	SuccessURL string `json:"successUrl" validate:"required,url"`
	CancelURL  string `json:"cancelUrl" validate:"required,url"`
}

type TournamentCheckoutRequest struct {
	CheckoutRequest
	TournamentID   string `json:"tournamentId" validate:"required"`
	RegistrationID string `json:"registrationId" validate:"required"`
}

type EventCheckoutRequest struct {
	CheckoutRequest
	EventID string `json:"eventId" validate:"required"`
}

type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// EventCheckoutResponse is either a redirectable session or a fee-pass
// bypass outcome; the two shapes are distinct on purpose.
type EventCheckoutResponse struct {
	SessionID string `json:"sessionId,omitempty"`
	URL       string `json:"url,omitempty"`
	Bypassed  bool   `json:"bypassed,omitempty"`
	Message   string `json:"message,omitempty"`
}

type MembershipStatusResponse struct {
	Status           model.MembershipStatus `json:"status"`
	Expires          *time.Time             `json:"expires"`
	IsActive         bool                   `json:"isActive"`
	MembershipPasses int                    `json:"membershipPasses"`
	EventFeePasses   int                    `json:"eventFeePasses"`
}

// -------- dashboard --------

type DashboardStats struct {
	TotalCities         int64 `json:"totalCities"`
	ActivatedCities     int64 `json:"activatedCities"`
	OpenCities          int64 `json:"openCities"`
	TotalTournaments    int64 `json:"totalTournaments"`
	UpcomingTournaments int64 `json:"upcomingTournaments"`
	TotalPlayers        int64 `json:"totalPlayers"`
	TotalRegistrations  int64 `json:"totalRegistrations"`
}

type DashboardTournament struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	StartDate         time.Time            `json:"startDate"`
	EndDate           time.Time            `json:"endDate"`
	Schedule          []model.ScheduleDay  `json:"schedule,omitempty"`
	RegisteredPlayers int64                `json:"registeredPlayers"`
	PlayerPreview     []PlayerPreviewEntry `json:"playerPreview"`
}

type DashboardCity struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Code        string                `json:"code"`
	Status      model.CityStatus      `json:"status"`
	RegionCode  string                `json:"regionCode"`
	CountryCode string                `json:"countryCode"`
	FlagCode    string                `json:"flagCode"`
	Tournaments []DashboardTournament `json:"tournaments"`
}
