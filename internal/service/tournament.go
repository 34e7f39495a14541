package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/middleware"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type TournamentService interface {
	CreateTournament(ctx context.Context, claims *middleware.Claims, req *dto.CreateTournamentRequest) (*model.Tournament, error)
	GetTournament(ctx context.Context, id string) (*model.Tournament, error)
	ListTournaments(ctx context.Context) ([]*model.Tournament, error)
	GetByCityCode(ctx context.Context, cityCode string) (*model.Tournament, error)
	UpdateTournament(ctx context.Context, claims *middleware.Claims, id string, req *dto.UpdateTournamentRequest) (*model.Tournament, error)
	DeleteTournament(ctx context.Context, claims *middleware.Claims, id string) error
}

type tournamentServiceImpl struct {
	tournamentRepo repository.TournamentRepository
	locationRepo   repository.LocationRepository
	userRepo       repository.UserRepository
}

func NewTournamentService(
	tournamentRepo repository.TournamentRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
) TournamentService {
	return &tournamentServiceImpl{
		tournamentRepo: tournamentRepo,
		locationRepo:   locationRepo,
		userRepo:       userRepo,
	}
}

// CreateTournament creates a tournament in a city looked up by code and
// flips the city to activated.
func (s *tournamentServiceImpl) CreateTournament(ctx context.Context, claims *middleware.Claims, req *dto.CreateTournamentRequest) (*model.Tournament, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "End date must not be before start date")
	}

	cityCode := strings.ToUpper(req.CityCode)
	cities, err := s.locationRepo.FindActiveCities(ctx, repository.CityFilters{Code: cityCode})
	if err != nil {
		return nil, err
	}
	if len(cities) == 0 {
		return nil, echo.NewHTTPError(http.StatusNotFound, "City not found")
	}
	city := cities[0]

	operatorName := claims.Username
	if user, err := s.userRepo.FindByID(ctx, claims.Subject); err == nil {
		operatorName = user.DisplayName()
	}

	schedule := make([]model.ScheduleDay, len(req.Schedule))
	for i, day := range req.Schedule {
		schedule[i] = model.ScheduleDay{
			Day:    day.Day,
			Date:   day.Date,
			Events: day.Events,
		}
	}

	tournament := &model.Tournament{
		Name:          req.Name,
		CityID:        city.ID,
		CityCode:      city.Code,
		OperatorID:    &claims.Subject,
		OperatorName:  operatorName,
		Location:      req.Location,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		Status:        model.TournamentUpcoming,
		TournamentURL: req.TournamentURL,
		Schedule:      schedule,
		IsActive:      true,
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		return nil, err
	}

	if err := s.locationRepo.UpdateCityStatus(ctx, city.ID, model.CityActivated); err != nil {
		return nil, err
	}

	return s.tournamentRepo.FindByID(ctx, tournament.ID)
}

func (s *tournamentServiceImpl) GetTournament(ctx context.Context, id string) (*model.Tournament, error) {
	tournament, err := s.tournamentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Tournament not found")
		}
		return nil, err
	}

	return tournament, nil
}

func (s *tournamentServiceImpl) ListTournaments(ctx context.Context) ([]*model.Tournament, error) {
	return s.tournamentRepo.FindAllActive(ctx)
}

func (s *tournamentServiceImpl) GetByCityCode(ctx context.Context, cityCode string) (*model.Tournament, error) {
	tournament, err := s.tournamentRepo.FindByCityCode(ctx, strings.ToUpper(cityCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "No active tournament in city")
		}
		return nil, err
	}

	return tournament, nil
}

// canManage allows admins and the owning operator.
func canManage(claims *middleware.Claims, tournament *model.Tournament) bool {
	if claims.UserType == model.UserTypeAdmin {
		return true
	}
	return tournament.OperatorID != nil && *tournament.OperatorID == claims.Subject
}

func (s *tournamentServiceImpl) UpdateTournament(ctx context.Context, claims *middleware.Claims, id string, req *dto.UpdateTournamentRequest) (*model.Tournament, error) {
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(claims, tournament) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "Not the tournament operator")
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.StartDate != nil {
		fields["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		fields["end_date"] = *req.EndDate
	}

	if len(fields) == 0 {
		return tournament, nil
	}

	if err := s.tournamentRepo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}

	return s.tournamentRepo.FindByID(ctx, id)
}

// DeleteTournament deactivates the tournament and, when it was the
// city's last active one, reopens the city.
func (s *tournamentServiceImpl) DeleteTournament(ctx context.Context, claims *middleware.Claims, id string) error {
	tournament, err := s.GetTournament(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(claims, tournament) {
		return echo.NewHTTPError(http.StatusForbidden, "Not the tournament operator")
	}

	fields := map[string]interface{}{
		"is_active": false,
		"status":    model.TournamentCancelled,
	}
	if err := s.tournamentRepo.Updates(ctx, id, fields); err != nil {
		return err
	}

	hasOther, err := s.tournamentRepo.HasOtherActiveInCity(ctx, tournament.CityID, id)
	if err != nil {
		return err
	}
	if !hasOther {
		if err := s.locationRepo.UpdateCityStatus(ctx, tournament.CityID, model.CityOpen); err != nil {
			return err
		}
	}

	return nil
}
