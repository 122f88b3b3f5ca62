package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"vitour/internal/repositories"
	"vitour/internal/services"
	"vitour/pkg/utils"
)

var Module = fx.Provide(provideAccountService)

func provideAccountService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	bonusService services.BonusServiceInterface,
	tokens *utils.TokenIssuer,
	clock services.Clock,
	logger *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(db, userRepo, membershipRepo, bonusService, tokens, clock, logger)
}
