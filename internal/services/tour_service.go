package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"vitour/internal/models/db_models"
	"vitour/internal/repositories"
	"vitour/pkg/metrics"
	"vitour/pkg/utils"
)

const maxTourTitleLength = 100

// TourBooking is the outcome of BookTour. Warnings carry non-fatal problems
// from steps that run after the tour is committed.
type TourBooking struct {
	Tour            *db_models.Tour
	DiscountPercent int
	Membership      *db_models.UserMembership
	Bonus           *db_models.BonusHistory
	Warnings        []string
}

type TourServiceInterface interface {
	BookTour(ctx context.Context, userID, cityID uuid.UUID, title string) (*TourBooking, error)
	GetTour(ctx context.Context, id uuid.UUID) (*db_models.Tour, error)
	ListUserTours(ctx context.Context, userID uuid.UUID) ([]db_models.Tour, error)
}

type TourService struct {
	db             *gorm.DB
	userRepo       repositories.UserRepository
	cityRepo       repositories.CityRepository
	tourRepo       repositories.TourRepository
	membershipRepo repositories.MembershipRepository
	bonusService   BonusServiceInterface
	policy         MembershipPolicy
	clock          Clock
	logger         *zap.Logger
}

func NewTourService(
	db *gorm.DB,
	userRepo repositories.UserRepository,
	cityRepo repositories.CityRepository,
	tourRepo repositories.TourRepository,
	membershipRepo repositories.MembershipRepository,
	bonusService BonusServiceInterface,
	policy MembershipPolicy,
	clock Clock,
	logger *zap.Logger,
) TourServiceInterface {
	return &TourService{
		db:             db,
		userRepo:       userRepo,
		cityRepo:       cityRepo,
		tourRepo:       tourRepo,
		membershipRepo: membershipRepo,
		bonusService:   bonusService,
		policy:         policy,
		clock:          clock,
		logger:         logger,
	}
}

func (t *TourService) BookTour(ctx context.Context, userID, cityID uuid.UUID, title string) (*TourBooking, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", utils.ErrValidation)
	}
	if len([]rune(title)) > maxTourTitleLength {
		return nil, fmt.Errorf("%w: title must be at most %d characters", utils.ErrValidation, maxTourTitleLength)
	}

	user, err := t.userRepo.FindById(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}

	city, err := t.cityRepo.FindById(ctx, cityID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if city == nil {
		return nil, utils.ErrCityNotFound
	}

	now := t.clock.Now()
	today := utils.DayToUnix(now)
	booking := &TourBooking{}

	// Usage is read under a row lock and incremented in the same transaction
	// as the tour insert, so concurrent bookings cannot reuse one discount slot.
	err = t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		memberships := t.membershipRepo.WithTx(tx)

		membership, err := memberships.FindBestActiveForUpdate(ctx, user.ID, today)
		if err != nil {
			return err
		}

		discount := 0
		if membership != nil {
			discount = t.policy.DiscountPercent(membership.Card, membership.UsedTours)
			if discount > 0 {
				if err := memberships.IncrementUsedTours(ctx, membership.ID); err != nil {
					return err
				}
				membership.UsedTours++
			}
		}

		tour := &db_models.Tour{
			UserID: user.ID,
			CityID: city.ID,
			Title:  title,
			Price:  ComputeTourPrice(city.Price, discount),
		}
		tour.CreatedAt = now.Unix()
		if err := t.tourRepo.WithTx(tx).Insert(ctx, tour); err != nil {
			return err
		}

		booking.Tour = tour
		booking.DiscountPercent = discount
		booking.Membership = membership
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: book tour: %v", utils.ErrDatabaseError, err)
	}

	metrics.ToursBooked.WithLabelValues(strconv.FormatBool(booking.DiscountPercent > 0)).Inc()
	t.logger.Info("tour booked",
		zap.String("tour_id", booking.Tour.ID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("city_id", city.ID.String()),
		zap.Int("discount_percent", booking.DiscountPercent),
		zap.String("price", booking.Tour.Price.StringFixed(2)))

	// The booking is committed; a bonus failure is reported, never rolled back.
	bonus, err := t.bonusService.ProcessBonus(ctx, user.ID, booking.Tour)
	if err != nil {
		metrics.BonusFailures.Inc()
		t.logger.Warn("referral bonus failed",
			zap.String("tour_id", booking.Tour.ID.String()),
			zap.Error(err))
		booking.Warnings = append(booking.Warnings, "referral bonus could not be processed")
	}
	booking.Bonus = bonus

	return booking, nil
}

func (t *TourService) GetTour(ctx context.Context, id uuid.UUID) (*db_models.Tour, error) {
	tour, err := t.tourRepo.FindById(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if tour == nil {
		return nil, utils.ErrNotFound
	}
	return tour, nil
}

func (t *TourService) ListUserTours(ctx context.Context, userID uuid.UUID) ([]db_models.Tour, error) {
	tours, err := t.tourRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return tours, nil
}
