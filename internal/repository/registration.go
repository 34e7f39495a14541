package repository

import (
	"context"

	"pkl-club-api/internal/model"

	"gorm.io/gorm"
)

type RegistrationRepository interface {
	Create(ctx context.Context, registration *model.Registration) error
	FindByID(ctx context.Context, id string) (*model.Registration, error)
	FindByTournament(ctx context.Context, tournamentID string) ([]*model.Registration, error)
	FindByPlayer(ctx context.Context, playerID string) ([]*model.Registration, error)
	Exists(ctx context.Context, tournamentID, playerID string, category model.PlayerCategory) (bool, error)
	UpdateStatus(ctx context.Context, id string, status model.RegistrationStatus) error
	CountActiveByTournament(ctx context.Context, tournamentID string) (int64, error)
	Preview(ctx context.Context, tournamentID string, limit int) ([]*model.Registration, error)
	Count(ctx context.Context) (int64, error)
}

type registrationRepoImpl struct {
	db *gorm.DB
}

func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepoImpl{db: db}
}

func (r *registrationRepoImpl) Create(ctx context.Context, registration *model.Registration) error {
	return r.db.WithContext(ctx).Create(registration).Error
}

func (r *registrationRepoImpl) FindByID(ctx context.Context, id string) (*model.Registration, error) {
	var registration model.Registration
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&registration).Error

	if err != nil {
		return nil, err
	}

	return &registration, nil
}

func (r *registrationRepoImpl) FindByTournament(ctx context.Context, tournamentID string) ([]*model.Registration, error) {
	var registrations []*model.Registration
	err := r.db.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("created_at DESC").
		Find(&registrations).Error

	return registrations, err
}

func (r *registrationRepoImpl) FindByPlayer(ctx context.Context, playerID string) ([]*model.Registration, error) {
	var registrations []*model.Registration
	err := r.db.WithContext(ctx).
		Preload("Tournament").
		Where("player_id = ?", playerID).
		Order("created_at DESC").
		Find(&registrations).Error

	return registrations, err
}

func (r *registrationRepoImpl) Exists(ctx context.Context, tournamentID, playerID string, category model.PlayerCategory) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("tournament_id = ? AND player_id = ? AND category = ?", tournamentID, playerID, category).
		Count(&count).Error

	return count > 0, err
}

func (r *registrationRepoImpl) UpdateStatus(ctx context.Context, id string, status model.RegistrationStatus) error {
	result := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *registrationRepoImpl) CountActiveByTournament(ctx context.Context, tournamentID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).
		Where("tournament_id = ? AND status <> ?", tournamentID, model.RegistrationCancelled).
		Count(&count).Error

	return count, err
}

func (r *registrationRepoImpl) Preview(ctx context.Context, tournamentID string, limit int) ([]*model.Registration, error) {
	var registrations []*model.Registration
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND status <> ?", tournamentID, model.RegistrationCancelled).
		Limit(limit).
		Find(&registrations).Error

	return registrations, err
}

func (r *registrationRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Registration{}).Count(&count).Error

	return count, err
}
