package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type EventService interface {
	CreateEvent(ctx context.Context, claims *middleware.Claims, req *dto.CreateEventRequest) (*model.Event, error)
	GetEvent(ctx context.Context, id string) (*model.Event, error)
	ListApproved(ctx context.Context, limit int) ([]*model.Event, error)
	ListPending(ctx context.Context) ([]*model.Event, error)
	ListByOperator(ctx context.Context, operatorID string) ([]*model.Event, error)
	ReviewEvent(ctx context.Context, claims *middleware.Claims, id string, req *dto.ReviewEventRequest) (*model.Event, error)
	SetWinner(ctx context.Context, claims *middleware.Claims, id string, req *dto.SetWinnerRequest) (*model.Event, error)
	RegisterPlayer(ctx context.Context, id string, req *dto.RegisterPlayerRequest) (*model.Event, error)
	Stats(ctx context.Context) (*dto.EventStatsResponse, error)
}

type eventServiceImpl struct {
	eventRepo repository.EventRepository
	userRepo  repository.UserRepository
}

func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
) EventService {
	return &eventServiceImpl{
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

// CreateEvent submits an event application. Operator submissions start
// pending; an admin's own event is approved on the spot, with the admin
// recorded as reviewer.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, claims *middleware.Claims, req *dto.CreateEventRequest) (*model.Event, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "End date must not be before start date")
	}

	days := make([]model.EventDay, len(req.DataPerDay))
	for i, d := range req.DataPerDay {
		days[i] = model.EventDay{
			Date:        d.Date,
			Title:       d.Title,
			StartTime:   d.StartTime,
			EndTime:     d.EndTime,
			Description: d.Description,
		}
	}

	event := &model.Event{
		OperatorID: claims.Subject,
		Name:       req.Name,
		Location: model.EventLocation{
			Country:   req.Location.Country,
			Region:    req.Location.Region,
			State:     req.Location.State,
			CourtName: req.Location.CourtName,
			City:      req.Location.City,
			Address:   req.Location.Address,
		},
		TournamentSite:  req.TournamentSite,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Days:            days,
		Status:          model.EventPending,
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
		EntryFee:        req.EntryFee,
	}

	if claims.UserType == model.UserTypeAdmin {
		now := time.Now()
		event.Status = model.EventApproved
		event.ReviewedBy = &claims.Subject
		event.ReviewedAt = &now
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *eventServiceImpl) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Event not found")
		}
		return nil, err
	}

	return event, nil
}

func (s *eventServiceImpl) ListApproved(ctx context.Context, limit int) ([]*model.Event, error) {
	return s.eventRepo.FindApproved(ctx, limit)
}

func (s *eventServiceImpl) ListPending(ctx context.Context) ([]*model.Event, error) {
	return s.eventRepo.FindPending(ctx)
}

func (s *eventServiceImpl) ListByOperator(ctx context.Context, operatorID string) ([]*model.Event, error) {
	return s.eventRepo.FindByOperator(ctx, operatorID)
}

// ReviewEvent resolves a pending application. Only pending events can
// be reviewed; a second review of the same event is rejected.
func (s *eventServiceImpl) ReviewEvent(ctx context.Context, claims *middleware.Claims, id string, req *dto.ReviewEventRequest) (*model.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventPending {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Event is not pending review")
	}

	now := time.Now()
	fields := map[string]interface{}{
		"status":      req.Status,
		"admin_notes": req.AdminNotes,
		"reviewed_by": claims.Subject,
		"reviewed_at": now,
	}
	if err := s.eventRepo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.eventRepo.FindByID(ctx, id)
}

// SetWinner declares the event winner and completes the event. The
// declaration is final: once made, it cannot be changed or undone.
func (s *eventServiceImpl) SetWinner(ctx context.Context, claims *middleware.Claims, id string, req *dto.SetWinnerRequest) (*model.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if claims.UserType != model.UserTypeAdmin && event.OperatorID != claims.Subject {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not the event operator")
	}
	if event.Status != model.EventApproved && event.Status != model.EventCompleted {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Event must be approved before declaring a winner")
	}
	if event.HasWinner() {
		return nil, echo.NewHTTPError(http.StatusConflict, "Winner already declared")
	}

	now := time.Now()
	fields := map[string]interface{}{
		"winner_name":        req.PlayerName,
		"winner_declared_at": now,
		"winner_declared_by": claims.Subject,
		"status":             model.EventCompleted,
	}
	if req.PlayerID != "" {
		fields["winner_player_id"] = req.PlayerID
	}
	if err := s.eventRepo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.eventRepo.FindByID(ctx, id)
}

// RegisterPlayer adds a player directly to the roster, used for free
// events and walk-ups. Paid entry goes through the checkout flow
// instead.
func (s *eventServiceImpl) RegisterPlayer(ctx context.Context, id string, req *dto.RegisterPlayerRequest) (*model.Event, error) {
	event, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventApproved {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Event is not open for registration")
	}
	if event.MaxParticipants > 0 && len(event.RegisteredPlayers) >= event.MaxParticipants {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Event is full")
	}

	for _, p := range event.RegisteredPlayers {
		if req.PlayerID != "" && p.PlayerID != nil && *p.PlayerID == req.PlayerID {
			return nil, echo.NewHTTPError(http.StatusConflict, "Player already registered")
		}
		if req.Email != "" && strings.EqualFold(p.Email, req.Email) {
			return nil, echo.NewHTTPError(http.StatusConflict, "Player already registered")
		}
	}

	entry := &model.EventPlayer{
		EventID:      id,
		PlayerName:   req.PlayerName,
		Email:        req.Email,
		RegisteredAt: time.Now(),
	}
	if req.PlayerID != "" {
		entry.PlayerID = &req.PlayerID
	}

	if err := s.eventRepo.AddPlayer(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, echo.NewHTTPError(http.StatusConflict, "Player already registered")
		}
		return nil, err
	}

	return s.eventRepo.FindByID(ctx, id)
}

func (s *eventServiceImpl) Stats(ctx context.Context) (*dto.EventStatsResponse, error) {
	total, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.EventStatsResponse{Total: total}
	for status, dst := range map[model.EventStatus]*int64{
		model.EventPending:   &stats.Pending,
		model.EventApproved:  &stats.Approved,
		model.EventCompleted: &stats.Completed,
		model.EventRejected:  &stats.Rejected,
	} {
		count, err := s.eventRepo.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		*dst = count
	}

	return stats, nil
}
