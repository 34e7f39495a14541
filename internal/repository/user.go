package repository

import (
	"context"
	"strings"

	"pkl-club-api/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	FindByType(ctx context.Context, userType model.UserType) ([]*model.User, error)
	Search(ctx context.Context, q string) ([]*model.User, error)
	Updates(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	CountByType(ctx context.Context, userType model.UserType) (int64, error)
	ConsumeEventFeePass(ctx context.Context, id string) (bool, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{db: db}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepoImpl) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("membership_subscription_id = ?", subscriptionID).
		First(&user).Error

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindAll(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&users).Error

	return users, err
}

func (r *userRepoImpl) FindByType(ctx context.Context, userType model.UserType) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).
		Where("user_type = ?", userType).
		Order("created_at DESC").
		Find(&users).Error

	return users, err
}

func (r *userRepoImpl) Search(ctx context.Context, q string) ([]*model.User, error) {
	var users []*model.User
	pattern := "%" + strings.ToLower(q) + "%"
	err := r.db.WithContext(ctx).
		Where(
			"LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		).
		Limit(50).
		Find(&users).Error

	return users, err
}

func (r *userRepoImpl) Updates(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
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

func (r *userRepoImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.User{}).Error
}

func (r *userRepoImpl) CountByType(ctx context.Context, userType model.UserType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("user_type = ?", userType).
		Count(&count).Error

	return count, err
}

// ConsumeEventFeePass decrements a finite pass counter atomically; the
// guard keeps a concurrent double redemption from driving it negative.
// Returns false when no pass was available.
func (r *userRepoImpl) ConsumeEventFeePass(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND event_fee_passes > 0", id).
		Update("event_fee_passes", gorm.Expr("event_fee_passes - 1"))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
