// Command sweep deactivates expired (and, under date_or_tour_cap, used-up)
// memberships once and exits.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"vitour/internal/config"
	"vitour/internal/infra"
	"vitour/internal/repositories"
	"vitour/internal/services"
	"vitour/pkg/logger"
	"vitour/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], config.Load))
}

// run returns the process exit code so deferred cleanup always happens.
func run(args []string, loadConfig func() (*config.Config, error)) int {
	flags := flag.NewFlagSet("sweep", flag.ContinueOnError)
	asOfFlag := flags.String("as-of", "", "sweep date YYYY-MM-DD (default: today)")
	timeout := flags.Duration("timeout", 5*time.Minute, "maximum run time")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		return 1
	}

	zl, err := logger.NewLogger(cfg.IsProduction())
	if err != nil {
		log.Printf("Error building logger: %v", err)
		return 1
	}
	defer func() { _ = zl.Sync() }()

	loc := utils.LoadLocation(cfg.Timezone)
	clock := services.SystemClock{Location: loc}

	asOf := clock.Now()
	if *asOfFlag != "" {
		asOf, err = utils.ParseDay(*asOfFlag, loc)
		if err != nil {
			zl.Error("invalid -as-of", zap.String("value", *asOfFlag), zap.Error(err))
			return 2
		}
	}

	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		zl.Error("database unavailable", zap.Error(err))
		return 1
	}
	defer infra.ClosePostgresql(db)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	lifecycle := services.NewLifecycleService(repositories.NewMembershipRepository(db), cfg.ExpiryPolicy, clock, zl)
	count, err := lifecycle.SweepExpiredMemberships(ctx, asOf)
	if err != nil {
		zl.Error("sweep failed", zap.Int("deactivated", count), zap.Error(err))
		return 1
	}

	zl.Info("deactivated memberships", zap.Int("count", count))
	return 0
}
