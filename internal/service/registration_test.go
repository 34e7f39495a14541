package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"pkl-club-api/internal/dto"
	"pkl-club-api/internal/model"
	"pkl-club-api/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type registrationFixture struct {
	db      *gorm.DB
	service RegistrationService
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	db := newTestDB(t)
	return &registrationFixture{
		db: db,
		service: NewRegistrationService(
			repository.NewRegistrationRepository(db),
			repository.NewTournamentRepository(db),
			repository.NewUserRepository(db),
		),
	}
}

func (f *registrationFixture) createTournament(t *testing.T) *model.Tournament {
	t.Helper()

	now := time.Now()
	tournament := &model.Tournament{
		Name:      "City Open",
		CityID:    "city-1",
		CityCode:  "AUS",
		Location:  "Riverside Courts",
		StartDate: now.AddDate(0, 1, 0),
		EndDate:   now.AddDate(0, 1, 2),
		Status:    model.TournamentUpcoming,
		IsActive:  true,
	}
	require.NoError(t, f.db.Create(tournament).Error)
	return tournament
}

func TestRegisterDerivesNameAndInitials(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	player := createUser(t, f.db, &model.User{
		Username:  "jdoe",
		Email:     "jdoe@club.test",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	tournament := f.createTournament(t)

	registration, err := f.service.Register(ctx, claimsFor(player), &dto.CreateRegistrationRequest{
		TournamentID: tournament.ID,
		Category:     model.WomensSingles,
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", registration.PlayerName)
	require.Equal(t, "J.D.", registration.PlayerInitials)
	require.Equal(t, model.RegistrationPending, registration.Status)
}

func TestRegisterFallsBackToUsername(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	player := createUser(t, f.db, &model.User{
		Username: "solo",
		Email:    "solo@club.test",
	})
	tournament := f.createTournament(t)

	registration, err := f.service.Register(ctx, claimsFor(player), &dto.CreateRegistrationRequest{
		TournamentID: tournament.ID,
		Category:     model.MensSingles,
	})
	require.NoError(t, err)
	require.Equal(t, "solo", registration.PlayerName)
}

func TestRegisterDuplicateCategoryConflicts(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	player := createUser(t, f.db, &model.User{
		Username: "jdoe",
		Email:    "jdoe@club.test",
	})
	tournament := f.createTournament(t)

	req := &dto.CreateRegistrationRequest{
		TournamentID: tournament.ID,
		Category:     model.MensDoubles,
	}
	_, err := f.service.Register(ctx, claimsFor(player), req)
	require.NoError(t, err)

	_, err = f.service.Register(ctx, claimsFor(player), req)
	requireHTTPError(t, err, http.StatusConflict)

	// A different category is a separate entry.
	_, err = f.service.Register(ctx, claimsFor(player), &dto.CreateRegistrationRequest{
		TournamentID: tournament.ID,
		Category:     model.MixedDoubles,
	})
	require.NoError(t, err)
}

func TestRegisterWithPartner(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	player := createUser(t, f.db, &model.User{
		Username: "jdoe",
		Email:    "jdoe@club.test",
	})
	partner := createUser(t, f.db, &model.User{
		Username:  "partner",
		Email:     "partner@club.test",
		FirstName: "Pat",
		LastName:  "Lee",
	})
	tournament := f.createTournament(t)

	registration, err := f.service.Register(ctx, claimsFor(player), &dto.CreateRegistrationRequest{
		TournamentID: tournament.ID,
		Category:     model.MixedDoubles,
		PartnerID:    partner.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, registration.PartnerID)
	require.Equal(t, "Pat Lee", registration.PartnerName)
}

func TestCancelOwnRegistrationOnly(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	player := createUser(t, f.db, &model.User{
		Username: "jdoe",
		Email:    "jdoe@club.test",
	})
	other := createUser(t, f.db, &model.User{
		Username: "other",
		Email:    "other@club.test",
	})
	tournament := f.createTournament(t)

	registration, err := f.service.Register(ctx, claimsFor(player), &dto.CreateRegistrationRequest{
		TournamentID: tournament.ID,
		Category:     model.MensSingles,
	})
	require.NoError(t, err)

	err = f.service.Cancel(ctx, claimsFor(other), registration.ID)
	requireHTTPError(t, err, http.StatusForbidden)

	require.NoError(t, f.service.Cancel(ctx, claimsFor(player), registration.ID))

	stored, err := f.service.GetRegistration(ctx, registration.ID)
	require.NoError(t, err)
	require.Equal(t, model.RegistrationCancelled, stored.Status)
}

// The (tournament, player, category) unique index backstops the Exists
// pre-check under concurrent registration; the translated error is what
// Register maps to a conflict.
func TestRegistrationUniqueIndexRejectsDuplicate(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	repo := repository.NewRegistrationRepository(f.db)
	tournament := f.createTournament(t)

	entry := func() *model.Registration {
		return &model.Registration{
			TournamentID:   tournament.ID,
			PlayerID:       "p-1",
			PlayerInitials: "P.O.",
			PlayerName:     "Player One",
			Category:       model.MensSingles,
			Status:         model.RegistrationPending,
		}
	}

	require.NoError(t, repo.Create(ctx, entry()))

	err := repo.Create(ctx, entry())
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPlayerPreviewExcludesCancelled(t *testing.T) {
	f := newRegistrationFixture(t)
	ctx := context.Background()

	tournament := f.createTournament(t)

	for _, name := range []string{"alice", "bob", "carol"} {
		player := createUser(t, f.db, &model.User{
			Username: name,
			Email:    name + "@club.test",
		})
		_, err := f.service.Register(ctx, claimsFor(player), &dto.CreateRegistrationRequest{
			TournamentID: tournament.ID,
			Category:     model.MensSingles,
		})
		require.NoError(t, err)
	}

	preview, err := f.service.PlayerPreview(ctx, tournament.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), preview.Total)
	require.Len(t, preview.Players, 3)
}
