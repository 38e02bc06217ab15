package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, item *MenuItem) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*MenuItem, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*MenuItem, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]MenuItem, error)
}
