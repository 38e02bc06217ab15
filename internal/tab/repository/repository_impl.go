package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tabwise/epos/internal/tab/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tab *domain.Tab) error {
	return db.WithContext(ctx).Create(tab).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Tab, error) {
	var tab domain.Tab
	err := db.WithContext(ctx).First(&tab, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tab, nil
}

func (r *repo) FindByIDWithItems(ctx context.Context, db *gorm.DB, id int64) (*domain.Tab, error) {
	var tab domain.Tab
	err := db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("tab_items.created_at ASC, tab_items.id ASC")
		}).
		First(&tab, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tab, nil
}

func (r *repo) CreateItem(ctx context.Context, db *gorm.DB, item *domain.TabItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, tabID int64) ([]domain.TabItem, error) {
	var items []domain.TabItem
	err := db.WithContext(ctx).
		Where("tab_id = ?", tabID).
		Order("created_at ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountItems(ctx context.Context, db *gorm.DB, tabID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.TabItem{}).
		Where("tab_id = ?", tabID).
		Count(&count).Error
	return count, err
}

func (r *repo) UpdateTotals(ctx context.Context, db *gorm.DB, tab *domain.Tab) error {
	return db.WithContext(ctx).Exec(
		`UPDATE tabs
		 SET subtotal = ?, service_charge = ?, vat_total = ?, total = ?
		 WHERE id = ?`,
		tab.Subtotal,
		tab.ServiceCharge,
		tab.VATTotal,
		tab.Total,
		tab.ID,
	).Error
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, tabID int64, closedAt time.Time) error {
	result := db.WithContext(ctx).Exec(
		`UPDATE tabs
		 SET status = ?, closed_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusPaid,
		closedAt,
		tabID,
		domain.StatusOpen,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTabNotOpen
	}
	return nil
}
