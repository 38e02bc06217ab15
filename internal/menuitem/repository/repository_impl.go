package repository

import (
	"context"
	"errors"

	"github.com/tabwise/epos/internal/menuitem/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, item *domain.MenuItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := db.WithContext(ctx).First(&item, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.MenuItem, error) {
	var items []domain.MenuItem
	err := db.WithContext(ctx).Order("name ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
