package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
	"vitour/internal/config"
	"vitour/internal/infra"
	"vitour/internal/repositories"
)

var Module = fx.Provide(
	provideDB,
	repositories.NewUserRepository,
	repositories.NewMembershipCardRepository,
	repositories.NewMembershipRepository,
	repositories.NewCityRepository,
	repositories.NewTourRepository,
	repositories.NewBonusRepository,
)

func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		infra.ClosePostgresql(db)
	}))
	return db, nil
}
