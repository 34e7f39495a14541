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

type eventFixture struct {
	db      *gorm.DB
	events  repository.EventRepository
	service EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()

	db := newTestDB(t)
	events := repository.NewEventRepository(db)
	users := repository.NewUserRepository(db)

	return &eventFixture{
		db:      db,
		events:  events,
		service: NewEventService(events, users),
	}
}

func eventRequest() *dto.CreateEventRequest {
	now := time.Now()
	return &dto.CreateEventRequest{
		Name: "Summer Slam",
		Location: dto.EventLocationRequest{
			Country:   "USA",
			State:     "TX",
			CourtName: "Riverside Courts",
		},
		StartDate: now.AddDate(0, 1, 0),
		EndDate:   now.AddDate(0, 1, 1),
	}
}

func TestCreateEventOperatorStartsPending(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	operator := createUser(t, f.db, &model.User{
		Username: "op",
		Email:    "op@club.test",
		UserType: model.UserTypeOperator,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(operator), eventRequest())
	require.NoError(t, err)
	require.Equal(t, model.EventPending, event.Status)
	require.Nil(t, event.ReviewedBy)
}

func TestCreateEventAdminAutoApproved(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(admin), eventRequest())
	require.NoError(t, err)
	require.Equal(t, model.EventApproved, event.Status)
	require.NotNil(t, event.ReviewedBy)
	require.Equal(t, admin.ID, *event.ReviewedBy)
}

func TestReviewEventOnlyPending(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	operator := createUser(t, f.db, &model.User{
		Username: "op",
		Email:    "op@club.test",
		UserType: model.UserTypeOperator,
	})
	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(operator), eventRequest())
	require.NoError(t, err)

	reviewed, err := f.service.ReviewEvent(ctx, claimsFor(admin), event.ID, &dto.ReviewEventRequest{
		Status:     model.EventApproved,
		AdminNotes: "looks good",
	})
	require.NoError(t, err)
	require.Equal(t, model.EventApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedAt)

	// A second review must be rejected.
	_, err = f.service.ReviewEvent(ctx, claimsFor(admin), event.ID, &dto.ReviewEventRequest{
		Status: model.EventRejected,
	})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestSetWinnerIsIrreversible(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(admin), eventRequest())
	require.NoError(t, err)

	won, err := f.service.SetWinner(ctx, claimsFor(admin), event.ID, &dto.SetWinnerRequest{
		PlayerName: "Ann Cole",
	})
	require.NoError(t, err)
	require.Equal(t, model.EventCompleted, won.Status)
	require.Equal(t, "Ann Cole", won.WinnerName)
	require.NotNil(t, won.WinnerDeclaredAt)

	_, err = f.service.SetWinner(ctx, claimsFor(admin), event.ID, &dto.SetWinnerRequest{
		PlayerName: "Somebody Else",
	})
	requireHTTPError(t, err, http.StatusConflict)

	// Original declaration untouched.
	stored, err := f.events.FindByID(ctx, event.ID)
	require.NoError(t, err)
	require.Equal(t, "Ann Cole", stored.WinnerName)
}

func TestSetWinnerRequiresOwnerOrAdmin(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})
	stranger := createUser(t, f.db, &model.User{
		Username: "other-op",
		Email:    "other@club.test",
		UserType: model.UserTypeOperator,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(admin), eventRequest())
	require.NoError(t, err)

	_, err = f.service.SetWinner(ctx, claimsFor(stranger), event.ID, &dto.SetWinnerRequest{
		PlayerName: "Ann Cole",
	})
	requireHTTPError(t, err, http.StatusForbidden)
}

func TestSetWinnerRequiresApprovedEvent(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	operator := createUser(t, f.db, &model.User{
		Username: "op",
		Email:    "op@club.test",
		UserType: model.UserTypeOperator,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(operator), eventRequest())
	require.NoError(t, err)

	_, err = f.service.SetWinner(ctx, claimsFor(operator), event.ID, &dto.SetWinnerRequest{
		PlayerName: "Ann Cole",
	})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestRegisterPlayerDuplicateAndCapacity(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})

	req := eventRequest()
	req.MaxParticipants = 2
	event, err := f.service.CreateEvent(ctx, claimsFor(admin), req)
	require.NoError(t, err)

	_, err = f.service.RegisterPlayer(ctx, event.ID, &dto.RegisterPlayerRequest{
		PlayerID:   "p-1",
		PlayerName: "Player One",
		Email:      "one@club.test",
	})
	require.NoError(t, err)

	// Same player id again.
	_, err = f.service.RegisterPlayer(ctx, event.ID, &dto.RegisterPlayerRequest{
		PlayerID:   "p-1",
		PlayerName: "Player One",
	})
	requireHTTPError(t, err, http.StatusConflict)

	// Same email, different id.
	_, err = f.service.RegisterPlayer(ctx, event.ID, &dto.RegisterPlayerRequest{
		PlayerID:   "p-9",
		PlayerName: "Impostor",
		Email:      "ONE@club.test",
	})
	requireHTTPError(t, err, http.StatusConflict)

	_, err = f.service.RegisterPlayer(ctx, event.ID, &dto.RegisterPlayerRequest{
		PlayerID:   "p-2",
		PlayerName: "Player Two",
	})
	require.NoError(t, err)

	// Roster is full now.
	_, err = f.service.RegisterPlayer(ctx, event.ID, &dto.RegisterPlayerRequest{
		PlayerID:   "p-3",
		PlayerName: "Player Three",
	})
	requireHTTPError(t, err, http.StatusBadRequest)
}

func TestRegisterPlayerRequiresApprovedEvent(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	operator := createUser(t, f.db, &model.User{
		Username: "op",
		Email:    "op@club.test",
		UserType: model.UserTypeOperator,
	})

	event, err := f.service.CreateEvent(ctx, claimsFor(operator), eventRequest())
	require.NoError(t, err)

	_, err = f.service.RegisterPlayer(ctx, event.ID, &dto.RegisterPlayerRequest{
		PlayerName: "Walk Up",
	})
	requireHTTPError(t, err, http.StatusBadRequest)
}

// Two requests can both pass the roster pre-check before either row
// lands; the unique index is what actually stops the second insert, so
// its error must translate to gorm.ErrDuplicatedKey for the conflict
// mapping in RegisterPlayer to work.
func TestRosterUniqueIndexRejectsDuplicate(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})
	event, err := f.service.CreateEvent(ctx, claimsFor(admin), eventRequest())
	require.NoError(t, err)

	playerID := "p-1"
	require.NoError(t, f.events.AddPlayer(ctx, &model.EventPlayer{
		EventID:      event.ID,
		PlayerID:     &playerID,
		PlayerName:   "Player One",
		RegisteredAt: time.Now(),
	}))

	err = f.events.AddPlayer(ctx, &model.EventPlayer{
		EventID:      event.ID,
		PlayerID:     &playerID,
		PlayerName:   "Player One",
		RegisteredAt: time.Now(),
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Walk-up entries carry no player id and are exempt from the index.
	for i := 0; i < 2; i++ {
		require.NoError(t, f.events.AddPlayer(ctx, &model.EventPlayer{
			EventID:      event.ID,
			PlayerName:   "Walk Up",
			RegisteredAt: time.Now(),
		}))
	}
}

func TestEventStats(t *testing.T) {
	f := newEventFixture(t)
	ctx := context.Background()

	operator := createUser(t, f.db, &model.User{
		Username: "op",
		Email:    "op@club.test",
		UserType: model.UserTypeOperator,
	})
	admin := createUser(t, f.db, &model.User{
		Username: "boss",
		Email:    "boss@club.test",
		UserType: model.UserTypeAdmin,
	})

	_, err := f.service.CreateEvent(ctx, claimsFor(operator), eventRequest())
	require.NoError(t, err)
	_, err = f.service.CreateEvent(ctx, claimsFor(admin), eventRequest())
	require.NoError(t, err)

	stats, err := f.service.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(1), stats.Pending)
	require.Equal(t, int64(1), stats.Approved)
}
