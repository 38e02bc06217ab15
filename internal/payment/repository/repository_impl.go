package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tabwise/epos/internal/payment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) FindByTabAndIntent(ctx context.Context, db *gorm.DB, tabID int64, intentID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).
		First(&payment, "tab_id = ? AND payment_intent_id = ?", tabID, intentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) FindActiveByTab(ctx context.Context, db *gorm.DB, tabID int64) (*domain.Payment, error) {
	var payment domain.Payment
	err := db.WithContext(ctx).
		Where("tab_id = ? AND status = ?", tabID, domain.StatusRequiresConfirmation).
		Order("created_at ASC").
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repo) TransitionStatus(ctx context.Context, db *gorm.DB, id int64, from, to domain.Status, reason *string, confirmedAt time.Time) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE payments
		 SET status = ?, failure_reason = ?, confirmed_at = ?
		 WHERE id = ? AND status = ?`,
		to,
		reason,
		confirmedAt,
		id,
		from,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
