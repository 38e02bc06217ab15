package seed

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	menuitemdomain "github.com/tabwise/epos/internal/menuitem/domain"
	menuitemrepository "github.com/tabwise/epos/internal/menuitem/repository"
	"github.com/tabwise/epos/internal/money"
	"gorm.io/gorm"
)

type menuEntry struct {
	Name      string
	UnitPrice int64
	VATRate   money.VATRate
}

// defaultMenu is the starter card for a fresh install. Prices are in
// pence; the kids meal carries the reduced rate.
var defaultMenu = []menuEntry{
	{Name: "Flat White", UnitPrice: 350, VATRate: money.RateFromPercent(20, 0)},
	{Name: "Croissant", UnitPrice: 280, VATRate: money.RateFromPercent(20, 0)},
	{Name: "Iced Tea", UnitPrice: 300, VATRate: money.RateFromPercent(20, 0)},
	{Name: "Kids Meal", UnitPrice: 700, VATRate: money.RateFromPercent(5, 0)},
	{Name: "Pizza Margherita", UnitPrice: 1200, VATRate: money.RateFromPercent(20, 0)},
	{Name: "Coca Cola", UnitPrice: 300, VATRate: money.RateFromPercent(20, 0)},
	{Name: "Caesar Salad", UnitPrice: 900, VATRate: money.RateFromPercent(20, 0)},
	{Name: "Chocolate Cake", UnitPrice: 450, VATRate: money.RateFromPercent(20, 0)},
}

// EnsureDefaultMenu get-or-creates the starter menu by name so seeding
// is safe to run on every startup and never duplicates rows.
func EnsureDefaultMenu(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	repo := menuitemrepository.Provide()
	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range defaultMenu {
			existing, err := repo.FindByName(ctx, tx, entry.Name)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			item := menuitemdomain.MenuItem{
				ID:        node.Generate().Int64(),
				Code:      slug.Make(entry.Name),
				Name:      entry.Name,
				UnitPrice: entry.UnitPrice,
				VATRate:   entry.VATRate,
			}
			if err := tx.WithContext(ctx).Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
