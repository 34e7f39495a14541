package repository

import (
	"context"
	"time"

	"pkl-club-api/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	FindByUser(ctx context.Context, userID string) ([]*model.Payment, error)
	MarkCompleted(ctx context.Context, sessionID string, amount int64, paymentIntentID string) (*model.Payment, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{db: db}
}

func (r *paymentRepoImpl) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("stripe_session_id = ?", sessionID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&payments).Error

	return payments, err
}

// MarkCompleted applies the pending -> completed transition at most once;
// a redelivered webhook finds status already terminal and changes nothing.
// The row is returned either way so the caller can run its idempotent
// side effects.
func (r *paymentRepoImpl) MarkCompleted(ctx context.Context, sessionID string, amount int64, paymentIntentID string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fields := map[string]interface{}{
			"status":     model.PaymentCompleted,
			"amount":     amount,
			"updated_at": time.Now(),
		}
		if paymentIntentID != "" {
			fields["stripe_payment_intent_id"] = paymentIntentID
		}

		result := tx.Model(&model.Payment{}).
			Where("stripe_session_id = ? AND status = ?", sessionID, model.PaymentPending).
			Updates(fields)
		if result.Error != nil {
			return result.Error
		}

		return tx.Where("stripe_session_id = ?", sessionID).First(&payment).Error
	})

	if err != nil {
		return nil, err
	}

	return &payment, nil
}
