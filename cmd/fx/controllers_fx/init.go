package controllers_fx

import (
	"time"

	"go.uber.org/fx"
	"vitour/internal/api/controllers"
	"vitour/internal/config"
	"vitour/internal/services"
	mem "vitour/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewMembershipController),
	fx.Provide(provideTourController))

func provideTourController(
	tourService services.TourServiceInterface,
	store mem.IdempotencyStore,
	cfg *config.Config,
	loc *time.Location,
) *controllers.TourController {
	return controllers.NewTourController(tourService, store, cfg.IdempotencyTTL, loc)
}
