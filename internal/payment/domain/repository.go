package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Payment, error)
	// FindByTabAndIntent returns nil when no row matches both keys.
	FindByTabAndIntent(ctx context.Context, db *gorm.DB, tabID int64, intentID string) (*Payment, error)
	// FindActiveByTab returns the tab's requires_confirmation row, if any.
	FindActiveByTab(ctx context.Context, db *gorm.DB, tabID int64) (*Payment, error)
	// TransitionStatus is an atomic compare-and-set from one status to
	// another, recording the outcome fields in the same statement. It
	// reports false when another caller won the race.
	TransitionStatus(ctx context.Context, db *gorm.DB, id int64, from, to Status, reason *string, confirmedAt time.Time) (bool, error)
}
