package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"vitour/internal/config"
	"vitour/internal/models/db_models"
	"vitour/internal/repositories"
	"vitour/pkg/metrics"
	"vitour/pkg/utils"
)

const (
	skipNoReferrer      = "no_referrer"
	skipReferrerMissing = "referrer_missing"
	skipAlreadyPaid     = "already_paid"
	skipNoMembership    = "no_membership"
	skipMonthlyLimit    = "monthly_limit"
)

type BonusServiceInterface interface {
	// ProcessBonus pays the referrer of referredUserID for tour, or returns nil, nil
	// when nothing is owed.
	ProcessBonus(ctx context.Context, referredUserID uuid.UUID, tour *db_models.Tour) (*db_models.BonusHistory, error)
	ListBonusHistory(ctx context.Context, referrerID uuid.UUID) ([]db_models.BonusHistory, error)
}

type BonusService struct {
	db                *gorm.DB
	userRepo          repositories.UserRepository
	membershipRepo    repositories.MembershipRepository
	bonusRepo         repositories.BonusRepository
	policy            MembershipPolicy
	noMembershipBonus *config.BonusRule
	clock             Clock
	logger            *zap.Logger
}

func NewBonusService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	bonusRepo repositories.BonusRepository,
	policy MembershipPolicy,
	noMembershipBonus *config.BonusRule,
	clock Clock,
	logger *zap.Logger,
) BonusServiceInterface {
	return &BonusService{
		db:                db,
		userRepo:          userRepo,
		membershipRepo:    membershipRepo,
		bonusRepo:         bonusRepo,
		policy:            policy,
		noMembershipBonus: noMembershipBonus,
		clock:             clock,
		logger:            logger,
	}
}

func (b *BonusService) ProcessBonus(ctx context.Context, referredUserID uuid.UUID, tour *db_models.Tour) (*db_models.BonusHistory, error) {
	if tour == nil || tour.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: tour is required", utils.ErrValidation)
	}

	referred, err := b.userRepo.FindById(ctx, referredUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if referred == nil {
		return nil, utils.ErrUserNotFound
	}
	if referred.ReferrerID == nil {
		b.skip(skipNoReferrer, referredUserID, tour.ID)
		return nil, nil
	}

	now := b.clock.Now()
	today := utils.DayToUnix(now)
	monthStart, monthEnd := utils.MonthBounds(now)

	var (
		paid   *db_models.BonusHistory
		reason string
	)

	// The referrer row lock serialises the monthly count check and the insert
	// for every booking that pays the same referrer.
	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := b.userRepo.WithTx(tx)
		bonuses := b.bonusRepo.WithTx(tx)

		referrer, err := users.FindByIdForUpdate(ctx, *referred.ReferrerID)
		if err != nil {
			return err
		}
		if referrer == nil {
			reason = skipReferrerMissing
			return nil
		}

		exists, err := bonuses.ExistsForTour(ctx, tour.ID)
		if err != nil {
			return err
		}
		if exists {
			reason = skipAlreadyPaid
			return nil
		}

		rule, ok, err := b.resolveRule(ctx, b.membershipRepo.WithTx(tx), referrer.ID, today)
		if err != nil {
			return err
		}
		if !ok {
			reason = skipNoMembership
			return nil
		}

		if rule.MonthlyLimit != nil {
			count, err := bonuses.CountForReferrerBetween(ctx, referrer.ID, monthStart.Unix(), monthEnd.Unix())
			if err != nil {
				return err
			}
			if count >= int64(*rule.MonthlyLimit) {
				reason = skipMonthlyLimit
				return nil
			}
		}

		record := &db_models.BonusHistory{
			ReferrerID:     referrer.ID,
			ReferredUserID: referred.ID,
			TourID:         tour.ID,
			Amount:         rule.Amount,
		}
		record.CreatedAt = now.Unix()
		if err := bonuses.Insert(ctx, record); err != nil {
			return err
		}

		if err := users.UpdateBalance(ctx, referrer.ID, referrer.Balance.Add(rule.Amount)); err != nil {
			return err
		}

		paid = record
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: process bonus for tour %s: %v", utils.ErrDatabaseError, tour.ID, err)
	}

	if paid == nil {
		b.skip(reason, referredUserID, tour.ID)
		return nil, nil
	}

	metrics.BonusesPaid.Inc()
	b.logger.Info("referral bonus paid",
		zap.String("referrer_id", paid.ReferrerID.String()),
		zap.String("referred_user_id", paid.ReferredUserID.String()),
		zap.String("tour_id", paid.TourID.String()),
		zap.String("amount", paid.Amount.StringFixed(2)))

	return paid, nil
}

// resolveRule reads the referrer's best active membership; without one the
// configured no-membership default applies, if any.
func (b *BonusService) resolveRule(ctx context.Context, memberships repositories.MembershipRepository, referrerID uuid.UUID, today int64) (config.BonusRule, bool, error) {
	membership, err := memberships.FindBestActive(ctx, referrerID, today)
	if err != nil {
		return config.BonusRule{}, false, err
	}
	if membership != nil {
		return b.policy.BonusRule(membership.Card), true, nil
	}
	if b.noMembershipBonus != nil {
		return *b.noMembershipBonus, true, nil
	}
	return config.BonusRule{}, false, nil
}

func (b *BonusService) skip(reason string, referredUserID, tourID uuid.UUID) {
	metrics.BonusesSkipped.WithLabelValues(reason).Inc()
	b.logger.Debug("referral bonus skipped",
		zap.String("reason", reason),
		zap.String("referred_user_id", referredUserID.String()),
		zap.String("tour_id", tourID.String()))
}

func (b *BonusService) ListBonusHistory(ctx context.Context, referrerID uuid.UUID) ([]db_models.BonusHistory, error) {
	bonuses, err := b.bonusRepo.ListByReferrer(ctx, referrerID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return bonuses, nil
}
