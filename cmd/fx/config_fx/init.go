package config_fx

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"vitour/internal/config"
	"vitour/internal/services"
	"vitour/pkg/logger"
	"vitour/pkg/utils"
)

var Module = fx.Provide(
	config.Load,
	provideLogger,
	provideLocation,
	provideClock,
	provideMembershipPolicy,
	provideTokenIssuer,
)

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.NewLogger(cfg.IsProduction())
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() {
		_ = log.Sync()
	}))
	return log, nil
}

func provideLocation(cfg *config.Config) *time.Location {
	return utils.LoadLocation(cfg.Timezone)
}

func provideClock(loc *time.Location) services.Clock {
	return services.SystemClock{Location: loc}
}

func provideMembershipPolicy(cfg *config.Config) services.MembershipPolicy {
	return services.NewMembershipPolicy(cfg)
}

func provideTokenIssuer(cfg *config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
}
