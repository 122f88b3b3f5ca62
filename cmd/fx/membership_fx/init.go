package membership_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"vitour/internal/config"
	"vitour/internal/repositories"
	"vitour/internal/services"
)

var Module = fx.Options(
	fx.Provide(services.NewMembershipService, provideLifecycleService),
	fx.Invoke(startPeriodicSweep),
)

func provideLifecycleService(
	membershipRepo repositories.MembershipRepository,
	cfg *config.Config,
	clock services.Clock,
	logger *zap.Logger,
) services.LifecycleServiceInterface {
	return services.NewLifecycleService(membershipRepo, cfg.ExpiryPolicy, clock, logger)
}

func startPeriodicSweep(lc fx.Lifecycle, lifecycle services.LifecycleServiceInterface, cfg *config.Config, logger *zap.Logger) {
	if cfg.SweepInterval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			logger.Info("starting periodic membership sweep", zap.Duration("interval", cfg.SweepInterval))
			go lifecycle.RunPeriodicSweep(ctx, cfg.SweepInterval)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
