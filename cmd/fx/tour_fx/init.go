package tour_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"vitour/internal/config"
	"vitour/internal/repositories"
	"vitour/internal/services"
)

var Module = fx.Provide(provideBonusService, services.NewTourService)

func provideBonusService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	bonusRepo repositories.BonusRepository,
	policy services.MembershipPolicy,
	cfg *config.Config,
	clock services.Clock,
	logger *zap.Logger,
) services.BonusServiceInterface {
	return services.NewBonusService(db, userRepo, membershipRepo, bonusRepo, policy, cfg.NoMembershipBonus, clock, logger)
}
