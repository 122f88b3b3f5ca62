package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"vitour/cmd/fx/account_fx"
	"vitour/cmd/fx/config_fx"
	"vitour/cmd/fx/controllers_fx"
	"vitour/cmd/fx/db_fx"
	"vitour/cmd/fx/membership_fx"
	"vitour/cmd/fx/memcache_fx"
	"vitour/cmd/fx/tour_fx"
	"vitour/internal/api/controllers"
	"vitour/internal/config"
	"vitour/pkg/middleware"
	"vitour/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		membership_fx.Module,
		tour_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg *config.Config,
	tokens *utils.TokenIssuer,
	accountController *controllers.AccountController,
	membershipController *controllers.MembershipController,
	tourController *controllers.TourController) *gin.Engine {

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.MetricsMiddleware())

	RegisterRoutes(r, tokens, accountController, membershipController, tourController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	tokens *utils.TokenIssuer,
	accountController *controllers.AccountController,
	membershipController *controllers.MembershipController,
	tourController *controllers.TourController) {

	auth := middleware.JWTAuthMiddleware(tokens)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", accountController.Register)
	accountGroup.POST("/login", accountController.Login)
	accountGroup.GET("/profile", auth, accountController.Profile)
	accountGroup.PUT("/referrer", auth, accountController.SetReferrer)

	r.GET("/cards", membershipController.ListCards)
	membershipGroup := r.Group("/memberships", auth)
	membershipGroup.POST("", membershipController.IssueMembership)
	membershipGroup.GET("", membershipController.ListMemberships)
	membershipGroup.GET("/active", membershipController.ActiveMembership)

	tourGroup := r.Group("/tours", auth)
	tourGroup.POST("", tourController.BookTour)
	tourGroup.GET("", tourController.ListTours)

	adminGroup := r.Group("/admin", auth, middleware.RoleMiddleware("admin"))
	adminGroup.POST("/cards", membershipController.CreateCard)
	adminGroup.POST("/memberships", membershipController.AdminIssueMembership)
	adminGroup.POST("/memberships/sweep", membershipController.Sweep)
	adminGroup.DELETE("/users/:id", accountController.DeleteUser)
}
