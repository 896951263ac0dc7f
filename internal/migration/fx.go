package migration

import (
	"github.com/geoledger/countrysync/internal/config"
	countrydomain "github.com/geoledger/countrysync/internal/country/domain"
	refreshrundomain "github.com/geoledger/countrysync/internal/refreshrun/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// sqlite is for local runs and tests; gorm's migrator is enough there.
		if cfg.DBType == "sqlite" {
			return conn.AutoMigrate(
				&countrydomain.Country{},
				&refreshrundomain.RefreshRun{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB, cfg.DBType)
	}),
)
