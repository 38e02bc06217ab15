package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, tab *Tab) error
	// FindByID loads the tab without items; returns nil when absent.
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Tab, error)
	// FindByIDWithItems loads the tab and its items ordered by creation.
	FindByIDWithItems(ctx context.Context, db *gorm.DB, id int64) (*Tab, error)
	CreateItem(ctx context.Context, db *gorm.DB, item *TabItem) error
	FindItems(ctx context.Context, db *gorm.DB, tabID int64) ([]TabItem, error)
	CountItems(ctx context.Context, db *gorm.DB, tabID int64) (int64, error)
	UpdateTotals(ctx context.Context, db *gorm.DB, tab *Tab) error
	// MarkPaid flips an open tab to paid. It is a compare-and-set on
	// status so a tab can never be closed twice.
	MarkPaid(ctx context.Context, db *gorm.DB, tabID int64, closedAt time.Time) error
}
