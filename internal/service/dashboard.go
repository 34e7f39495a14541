package service

import (
	"context"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"
)

type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStats, error)
	CitiesWithTournaments(ctx context.Context) ([]*dto.DashboardCity, error)
}

type dashboardServiceImpl struct {
	locationRepo     repository.LocationRepository
	tournamentRepo   repository.TournamentRepository
	registrationRepo repository.RegistrationRepository
	userRepo         repository.UserRepository
}

func NewDashboardService(
	locationRepo repository.LocationRepository,
	tournamentRepo repository.TournamentRepository,
	registrationRepo repository.RegistrationRepository,
	userRepo repository.UserRepository,
) DashboardService {
	return &dashboardServiceImpl{
		locationRepo:     locationRepo,
		tournamentRepo:   tournamentRepo,
		registrationRepo: registrationRepo,
		userRepo:         userRepo,
	}
}

func (s *dashboardServiceImpl) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{}

	var err error
	if stats.TotalCities, err = s.locationRepo.CountCities(ctx); err != nil {
		return nil, err
	}
	if stats.ActivatedCities, err = s.locationRepo.CountCitiesByStatus(ctx, model.CityActivated); err != nil {
		return nil, err
	}
	if stats.OpenCities, err = s.locationRepo.CountCitiesByStatus(ctx, model.CityOpen); err != nil {
		return nil, err
	}
	if stats.TotalTournaments, err = s.tournamentRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.UpcomingTournaments, err = s.tournamentRepo.CountActiveByStatus(ctx, model.TournamentUpcoming); err != nil {
		return nil, err
	}
	if stats.TotalPlayers, err = s.userRepo.CountByType(ctx, model.UserTypePlayer); err != nil {
		return nil, err
	}
	if stats.TotalRegistrations, err = s.registrationRepo.Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

// CitiesWithTournaments is the landing-page aggregate: every activated
// city with its active tournaments and a short roster preview each.
func (s *dashboardServiceImpl) CitiesWithTournaments(ctx context.Context) ([]*dto.DashboardCity, error) {
	cities, err := s.locationRepo.FindActiveCities(ctx, repository.CityFilters{})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DashboardCity, 0, len(cities))
	for _, city := range cities {
		if city.Status != model.CityActivated {
			continue
		}

		tournaments, err := s.tournamentRepo.FindActiveByCityID(ctx, city.ID)
		if err != nil {
			return nil, err
		}

		entry := &dto.DashboardCity{
			ID:          city.ID,
			Name:        city.Name,
			Code:        city.Code,
			Status:      city.Status,
			RegionCode:  city.RegionCode,
			CountryCode: city.CountryCode,
			FlagCode:    "",
			Tournaments: make([]dto.DashboardTournament, 0, len(tournaments)),
		}
		if country, err := s.locationRepo.FindCountryByCode(ctx, city.CountryCode); err == nil {
			entry.FlagCode = country.FlagCode
		}

		for _, t := range tournaments {
			registered, err := s.registrationRepo.CountActiveByTournament(ctx, t.ID)
			if err != nil {
				return nil, err
			}

			preview, err := s.registrationRepo.Preview(ctx, t.ID, previewLimit)
			if err != nil {
				return nil, err
			}
			players := make([]dto.PlayerPreviewEntry, len(preview))
			for i, reg := range preview {
				players[i] = dto.PlayerPreviewEntry{
					Initials: reg.PlayerInitials,
					Name:     reg.PlayerName,
					Category: string(reg.Category),
				}
			}

			entry.Tournaments = append(entry.Tournaments, dto.DashboardTournament{
				ID:                t.ID,
				Name:              t.Name,
				StartDate:         t.StartDate,
				EndDate:           t.EndDate,
				Schedule:          t.Schedule,
				RegisteredPlayers: registered,
				PlayerPreview:     players,
			})
		}

		result = append(result, entry)
	}

	return result, nil
}
