package migration

import (
	"github.com/tabwise/epos/internal/config"
	menuitemdomain "github.com/tabwise/epos/internal/menuitem/domain"
	paymentdomain "github.com/tabwise/epos/internal/payment/domain"
	"github.com/tabwise/epos/internal/seed"
	tabdomain "github.com/tabwise/epos/internal/tab/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql run from the model definitions.
			if err := conn.AutoMigrate(
				&menuitemdomain.MenuItem{},
				&tabdomain.Tab{},
				&tabdomain.TabItem{},
				&paymentdomain.Payment{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaultMenu(conn)
	}),
)
