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

const previewLimit = 10

type RegistrationService interface {
	Register(ctx context.Context, claims *middleware.Claims, req *dto.CreateRegistrationRequest) (*model.Registration, error)
	GetRegistration(ctx context.Context, id string) (*model.Registration, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]*model.Registration, error)
	ListByPlayer(ctx context.Context, playerID string) ([]*model.Registration, error)
	Cancel(ctx context.Context, claims *middleware.Claims, id string) error
	PlayerPreview(ctx context.Context, tournamentID string) (*dto.PlayerPreviewResponse, error)
}

type registrationServiceImpl struct {
	registrationRepo repository.RegistrationRepository
	tournamentRepo   repository.TournamentRepository
	userRepo         repository.UserRepository
}

func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	tournamentRepo repository.TournamentRepository,
	userRepo repository.UserRepository,
) RegistrationService {
	return &registrationServiceImpl{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		userRepo:         userRepo,
	}
}

// initials derives a short public label, e.g. "J.D." from "Jane Doe".
func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		if b.Len() >= 4 {
			break
		}
		b.WriteString(strings.ToUpper(string([]rune(part)[0])))
		b.WriteString(".")
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

func (s *registrationServiceImpl) Register(ctx context.Context, claims *middleware.Claims, req *dto.CreateRegistrationRequest) (*model.Registration, error) {
	if !model.ValidCategory(req.Category) {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid player category")
	}

	tournament, err := s.tournamentRepo.FindByID(ctx, req.TournamentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Tournament not found")
		}
		return nil, err
	}
	if !tournament.IsActive || tournament.Status == model.TournamentCancelled || tournament.Status == model.TournamentCompleted {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Tournament is not open for registration")
	}

	exists, err := s.registrationRepo.Exists(ctx, req.TournamentID, claims.Subject, req.Category)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, echo.NewHTTPError(http.StatusConflict, "Already registered in this category")
	}

	player, err := s.userRepo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	registration := &model.Registration{
		TournamentID:   req.TournamentID,
		PlayerID:       player.ID,
		PlayerName:     player.DisplayName(),
		PlayerInitials: initials(player.DisplayName()),
		Category:       req.Category,
		Status:         model.RegistrationPending,
	}

	if req.PartnerID != "" {
		partner, err := s.userRepo.FindByID(ctx, req.PartnerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, echo.NewHTTPError(http.StatusNotFound, "Partner not found")
			}
			return nil, err
		}
		registration.PartnerID = &partner.ID
		registration.PartnerName = partner.DisplayName()
	}

	if err := s.registrationRepo.Create(ctx, registration); err != nil {
		// The unique index backstops the pre-check under concurrency.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, echo.NewHTTPError(http.StatusConflict, "Already registered in this category")
		}
		return nil, err
	}

	return registration, nil
}

func (s *registrationServiceImpl) GetRegistration(ctx context.Context, id string) (*model.Registration, error) {
	registration, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "Registration not found")
		}
		return nil, err
	}

	return registration, nil
}

func (s *registrationServiceImpl) ListByTournament(ctx context.Context, tournamentID string) ([]*model.Registration, error) {
	return s.registrationRepo.FindByTournament(ctx, tournamentID)
}

func (s *registrationServiceImpl) ListByPlayer(ctx context.Context, playerID string) ([]*model.Registration, error) {
	return s.registrationRepo.FindByPlayer(ctx, playerID)
}

func (s *registrationServiceImpl) Cancel(ctx context.Context, claims *middleware.Claims, id string) error {
	registration, err := s.GetRegistration(ctx, id)
	if err != nil {
		return err
	}
	if claims.UserType != model.UserTypeAdmin && registration.PlayerID != claims.Subject {
		return echo.NewHTTPError(http.StatusForbidden, "Not your registration")
	}

	return s.registrationRepo.UpdateStatus(ctx, id, model.RegistrationCancelled)
}

// PlayerPreview returns an anonymized sample of the field plus the
// total count; public, so no full names of other players beyond what
// they registered with.
func (s *registrationServiceImpl) PlayerPreview(ctx context.Context, tournamentID string) (*dto.PlayerPreviewResponse, error) {
	total, err := s.registrationRepo.CountActiveByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	sample, err := s.registrationRepo.Preview(ctx, tournamentID, previewLimit)
	if err != nil {
		return nil, err
	}

	players := make([]dto.PlayerPreviewEntry, len(sample))
	for i, reg := range sample {
		players[i] = dto.PlayerPreviewEntry{
			Initials: reg.PlayerInitials,
			Name:     reg.PlayerName,
			Category: string(reg.Category),
		}
	}

	return &dto.PlayerPreviewResponse{
		Players: players,
		Total:   total,
	}, nil
}
