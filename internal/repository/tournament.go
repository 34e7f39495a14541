package repository

import (
	"context"

	"pkl-club-api/internal/model"

	"gorm.io/gorm"
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *model.Tournament) error
	FindByID(ctx context.Context, id string) (*model.Tournament, error)
	FindAllActive(ctx context.Context) ([]*model.Tournament, error)
	FindActiveByCityID(ctx context.Context, cityID string) ([]*model.Tournament, error)
	FindByCityCode(ctx context.Context, cityCode string) (*model.Tournament, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
	HasOtherActiveInCity(ctx context.Context, cityID, excludeID string) (bool, error)
	CountActive(ctx context.Context) (int64, error)
	CountActiveByStatus(ctx context.Context, status model.TournamentStatus) (int64, error)
}

type tournamentRepoImpl struct {
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &tournamentRepoImpl{db: db}
}

func (r *tournamentRepoImpl) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("City").
		Preload("Schedule")
}

func (r *tournamentRepoImpl) Create(ctx context.Context, tournament *model.Tournament) error {
	return r.db.WithContext(ctx).Create(tournament).Error
}

func (r *tournamentRepoImpl) FindByID(ctx context.Context, id string) (*model.Tournament, error) {
	var tournament model.Tournament
	err := r.preloaded(ctx).
		Where("id = ?", id).
		First(&tournament).Error

	if err != nil {
		return nil, err
	}

	return &tournament, nil
}

func (r *tournamentRepoImpl) FindAllActive(ctx context.Context) ([]*model.Tournament, error) {
	var tournaments []*model.Tournament
	err := r.preloaded(ctx).
		Where("is_active = ?", true).
		Order("start_date ASC").
		Find(&tournaments).Error

	return tournaments, err
}

func (r *tournamentRepoImpl) FindActiveByCityID(ctx context.Context, cityID string) ([]*model.Tournament, error) {
	var tournaments []*model.Tournament
	err := r.preloaded(ctx).
		Where("city_id = ? AND is_active = ?", cityID, true).
		Order("start_date ASC").
		Find(&tournaments).Error

	return tournaments, err
}

func (r *tournamentRepoImpl) FindByCityCode(ctx context.Context, cityCode string) (*model.Tournament, error) {
	var tournament model.Tournament
	err := r.preloaded(ctx).
		Where("city_code = ? AND is_active = ?", cityCode, true).
		First(&tournament).Error

	if err != nil {
		return nil, err
	}

	return &tournament, nil
}

func (r *tournamentRepoImpl) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Tournament{}).
		Where("id = ?", id).
		Updates(fields)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *tournamentRepoImpl) HasOtherActiveInCity(ctx context.Context, cityID, excludeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tournament{}).
		Where("city_id = ? AND id <> ? AND is_active = ?", cityID, excludeID, true).
		Count(&count).Error

	return count > 0, err
}

func (r *tournamentRepoImpl) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tournament{}).
		Where("is_active = ?", true).
		Count(&count).Error

	return count, err
}

func (r *tournamentRepoImpl) CountActiveByStatus(ctx context.Context, status model.TournamentStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tournament{}).
		Where("status = ? AND is_active = ?", status, true).
		Count(&count).Error

	return count, err
}
