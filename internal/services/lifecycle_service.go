package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"vitour/internal/config"
	"vitour/internal/repositories"
	"vitour/pkg/metrics"
	"vitour/pkg/utils"
)

type LifecycleServiceInterface interface {
	// SweepExpiredMemberships deactivates memberships that ended before asOf
	// (and, under date_or_tour_cap, capped cards that are used up). It returns
	// how many rows it flipped.
	SweepExpiredMemberships(ctx context.Context, asOf time.Time) (int, error)
	RunPeriodicSweep(ctx context.Context, interval time.Duration)
}

type LifecycleService struct {
	membershipRepo repositories.MembershipRepository
	expiryPolicy   string
	clock          Clock
	logger         *zap.Logger
}

func NewLifecycleService(membershipRepo repositories.MembershipRepository, expiryPolicy string, clock Clock, logger *zap.Logger) LifecycleServiceInterface {
	if expiryPolicy == "" {
		expiryPolicy = config.ExpiryDateOnly
	}
	return &LifecycleService{
		membershipRepo: membershipRepo,
		expiryPolicy:   expiryPolicy,
		clock:          clock,
		logger:         logger,
	}
}

func (l *LifecycleService) SweepExpiredMemberships(ctx context.Context, asOf time.Time) (int, error) {
	asOfDay := utils.DayToUnix(asOf)
	includeTourCap := l.expiryPolicy == config.ExpiryDateOrTourCap

	candidates, err := l.membershipRepo.FindSweepCandidates(ctx, asOfDay, includeTourCap)
	if err != nil {
		return 0, fmt.Errorf("%w: list sweep candidates: %v", utils.ErrDatabaseError, err)
	}

	deactivated := 0
	for _, membership := range candidates {
		if err := ctx.Err(); err != nil {
			return deactivated, err
		}

		changed, err := l.membershipRepo.Deactivate(ctx, membership.ID)
		if err != nil {
			l.logger.Warn("failed to deactivate membership",
				zap.String("membership_id", membership.ID.String()),
				zap.Error(err))
			continue
		}
		if changed {
			deactivated++
		}
	}

	metrics.MembershipsDeactivated.Add(float64(deactivated))
	l.logger.Info("membership sweep finished",
		zap.String("as_of", asOf.Format("2006-01-02")),
		zap.String("expiry_policy", l.expiryPolicy),
		zap.Int("candidates", len(candidates)),
		zap.Int("deactivated", deactivated))

	return deactivated, nil
}

// RunPeriodicSweep sweeps once per interval until ctx is done.
func (l *LifecycleService) RunPeriodicSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := l.SweepExpiredMemberships(ctx, l.clock.Now()); err != nil {
				l.logger.Error("periodic membership sweep failed", zap.Error(err))
			}
		}
	}
}
