package migration

import (
	achievementdomain "github.com/naturetrail/naturetrail/internal/achievement/domain"
	"github.com/naturetrail/naturetrail/internal/config"
	identitydomain "github.com/naturetrail/naturetrail/internal/identity/domain"
	"github.com/naturetrail/naturetrail/internal/seed"
	sightingdomain "github.com/naturetrail/naturetrail/internal/sighting/domain"
	subscriptiondomain "github.com/naturetrail/naturetrail/internal/subscription/domain"
	traildomain "github.com/naturetrail/naturetrail/internal/trail/domain"
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
			// sqlite and mysql development databases migrate from the models.
			if err := conn.AutoMigrate(
				&identitydomain.User{},
				&achievementdomain.Badge{},
				&achievementdomain.UserBadge{},
				&subscriptiondomain.Subscription{},
				&traildomain.Trail{},
				&traildomain.Completion{},
				&sightingdomain.Sighting{},
			); err != nil {
				return err
			}
		}

		return seed.Run(conn)
	}),
)
