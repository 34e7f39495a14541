package repository

import (
	"context"

	"pkl-club-api/internal/model"

	"gorm.io/gorm"
)

type EventFilters struct {
	Status     model.EventStatus
	OperatorID string
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindAll(ctx context.Context, filters EventFilters) ([]*model.Event, error)
	FindByOperator(ctx context.Context, operatorID string) ([]*model.Event, error)
	FindApproved(ctx context.Context, limit int) ([]*model.Event, error)
	FindPending(ctx context.Context) ([]*model.Event, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
	AddPlayer(ctx context.Context, entry *model.EventPlayer) error
	CountByStatus(ctx context.Context, status model.EventStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type eventRepoImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepoImpl{db: db}
}

func (r *eventRepoImpl) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Days").
		Preload("RegisteredPlayers")
}

func (r *eventRepoImpl) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepoImpl) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.preloaded(ctx).
		Where("id = ?", id).
		First(&event).Error

	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *eventRepoImpl) FindAll(ctx context.Context, filters EventFilters) ([]*model.Event, error) {
	query := r.preloaded(ctx)

	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.OperatorID != "" {
		query = query.Where("operator_id = ?", filters.OperatorID)
	}

	var events []*model.Event
	err := query.Order("created_at DESC").Find(&events).Error

	return events, err
}

func (r *eventRepoImpl) FindByOperator(ctx context.Context, operatorID string) ([]*model.Event, error) {
	var events []*model.Event
	err := r.preloaded(ctx).
		Where("operator_id = ?", operatorID).
		Order("created_at DESC").
		Find(&events).Error

	return events, err
}

func (r *eventRepoImpl) FindApproved(ctx context.Context, limit int) ([]*model.Event, error) {
	query := r.preloaded(ctx).
		Where("status IN ?", []model.EventStatus{model.EventApproved, model.EventCompleted}).
		Order("start_date DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []*model.Event
	err := query.Find(&events).Error

	return events, err
}

func (r *eventRepoImpl) FindPending(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := r.preloaded(ctx).
		Where("status = ?", model.EventPending).
		Order("created_at ASC").
		Find(&events).Error

	return events, err
}

func (r *eventRepoImpl) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.Event{}).
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

func (r *eventRepoImpl) AddPlayer(ctx context.Context, entry *model.EventPlayer) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *eventRepoImpl) CountByStatus(ctx context.Context, status model.EventStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("status = ?", status).
		Count(&count).Error

	return count, err
}

func (r *eventRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Event{}).Count(&count).Error

	return count, err
}
