package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"vitour/internal/config"
	"vitour/internal/models/db_models"
	"vitour/internal/repositories"
	"vitour/pkg/utils"
)

type testEnv struct {
	db          *gorm.DB
	users       repositories.UserRepository
	cards       repositories.MembershipCardRepository
	memberships repositories.MembershipRepository
	cities      repositories.CityRepository
	tours       repositories.TourRepository
	bonuses     repositories.BonusRepository
	logger      *zap.Logger
	now         time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db_models.AutoMigrate(db))

	return &testEnv{
		db:          db,
		users:       repositories.NewUserRepository(db),
		cards:       repositories.NewMembershipCardRepository(db),
		memberships: repositories.NewMembershipRepository(db),
		cities:      repositories.NewCityRepository(db),
		tours:       repositories.NewTourRepository(db),
		bonuses:     repositories.NewBonusRepository(db),
		logger:      zaptest.NewLogger(t),
		now:         time.Date(2024, time.March, 15, 10, 30, 0, 0, utils.DefaultLocation()),
	}
}

func (e *testEnv) clock() Clock {
	return ClockFunc(func() time.Time { return e.now })
}

func (e *testEnv) bonusService(policy MembershipPolicy, noMembership *config.BonusRule) BonusServiceInterface {
	return NewBonusService(e.db, e.users, e.memberships, e.bonuses, policy, noMembership, e.clock(), e.logger)
}

func (e *testEnv) tourService(policy MembershipPolicy, bonus BonusServiceInterface) TourServiceInterface {
	return NewTourService(e.db, e.users, e.cities, e.tours, e.memberships, bonus, policy, e.clock(), e.logger)
}

func (e *testEnv) createUser(t *testing.T, referrer *db_models.User) *db_models.User {
	t.Helper()
	code, err := utils.GenerateRefCode()
	require.NoError(t, err)

	user := &db_models.User{
		Email:   uuid.NewString() + "@example.com",
		Role:    defaultUserRole,
		RefCode: code,
		Balance: decimal.Zero,
	}
	if referrer != nil {
		user.ReferrerID = &referrer.ID
	}
	require.NoError(t, e.users.Insert(context.Background(), user))
	return user
}

func (e *testEnv) createCity(t *testing.T, price int64) *db_models.City {
	t.Helper()
	city := &db_models.City{Name: "Da Nang", Country: "Vietnam", Price: price}
	require.NoError(t, e.cities.Insert(context.Background(), city))
	return city
}

func (e *testEnv) createCard(t *testing.T, card *db_models.MembershipCard) *db_models.MembershipCard {
	t.Helper()
	if card.Code == "" {
		card.Code = "C" + uuid.NewString()[:8]
	}
	if card.Name == "" {
		card.Name = card.Code
	}
	require.NoError(t, e.cards.Insert(context.Background(), card))
	return card
}

// issue stores an active membership for user running until endDate (nil = open ended).
func (e *testEnv) issue(t *testing.T, user *db_models.User, card *db_models.MembershipCard, endDate *time.Time) *db_models.UserMembership {
	t.Helper()
	membership := &db_models.UserMembership{
		UserID:     user.ID,
		CardID:     card.ID,
		UniqueCode: utils.GenerateMembershipCode(),
		StartDate:  utils.DayToUnix(e.now),
		IsActive:   true,
	}
	if endDate != nil {
		end := utils.DayToUnix(*endDate)
		membership.EndDate = &end
	}
	require.NoError(t, e.memberships.Insert(context.Background(), membership))
	return membership
}

func (e *testEnv) createTour(t *testing.T, user *db_models.User, city *db_models.City) *db_models.Tour {
	t.Helper()
	tour := &db_models.Tour{UserID: user.ID, CityID: city.ID, Title: "Hoi An day trip", Price: decimal.NewFromInt(city.Price)}
	require.NoError(t, e.tours.Insert(context.Background(), tour))
	return tour
}

func (e *testEnv) days(n int) *time.Time {
	d := utils.AddDays(e.now, n)
	return &d
}

func intPtr(v int) *int { return &v }

// failingBonusService always fails, to exercise the post-commit warning path.
type failingBonusService struct{}

func (failingBonusService) ProcessBonus(context.Context, uuid.UUID, *db_models.Tour) (*db_models.BonusHistory, error) {
	return nil, utils.ErrDatabaseError
}

func (failingBonusService) ListBonusHistory(context.Context, uuid.UUID) ([]db_models.BonusHistory, error) {
	return nil, nil
}
