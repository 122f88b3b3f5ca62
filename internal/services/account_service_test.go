package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitour/internal/models/db_models"
	"vitour/internal/models/request_models"
	"vitour/pkg/utils"
)

func newAccountService(env *testEnv) AccountServiceInterface {
	return NewAccountService(env.db, env.users, env.memberships, env.bonusService(&TieredDiscountPolicy{}, nil),
		utils.NewTokenIssuer("test-secret", time.Hour), env.clock(), env.logger)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := newAccountService(env)

	user, err := service.Register(ctx, request_models.SignUpRequest{
		Email:     "Lan@Example.com",
		Password:  "secret1",
		FirstName: "Lan",
	})
	require.NoError(t, err)
	assert.Equal(t, "lan@example.com", user.Email)
	assert.Regexp(t, regexp.MustCompile(`^VT-\d{7}$`), user.RefCode)
	assert.Nil(t, user.ReferrerID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = service.Register(ctx, request_models.SignUpRequest{Email: "lan@example.com", Password: "other12"})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)

	login, err := service.Login(ctx, request_models.LoginRequest{Email: "LAN@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)
	assert.Equal(t, user.ID, login.User.ID)

	_, err = service.Login(ctx, request_models.LoginRequest{Email: "lan@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	_, err = service.Login(ctx, request_models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestRegister_WithReferralCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := newAccountService(env)

	referrer, err := service.Register(ctx, request_models.SignUpRequest{Email: "a@example.com", Password: "secret1"})
	require.NoError(t, err)

	referred, err := service.Register(ctx, request_models.SignUpRequest{Email: "b@example.com", Password: "secret1", RefCode: referrer.RefCode})
	require.NoError(t, err)
	require.NotNil(t, referred.ReferrerID)
	assert.Equal(t, referrer.ID, *referred.ReferrerID)

	_, err = service.Register(ctx, request_models.SignUpRequest{Email: "c@example.com", Password: "secret1", RefCode: "VT-0000000"})
	assert.ErrorIs(t, err, utils.ErrInvalidReferralCode)
}

func TestSetReferrer_RejectsCycles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := newAccountService(env)

	a := env.createUser(t, nil)
	b := env.createUser(t, a)
	c := env.createUser(t, b)

	assert.ErrorIs(t, service.SetReferrer(ctx, a.ID, a.ID), utils.ErrReferralCycle)
	assert.ErrorIs(t, service.SetReferrer(ctx, a.ID, c.ID), utils.ErrReferralCycle)
	assert.ErrorIs(t, service.SetReferrer(ctx, a.ID, uuid.New()), utils.ErrUserNotFound)

	d := env.createUser(t, nil)
	require.NoError(t, service.SetReferrer(ctx, a.ID, d.ID))
	require.NoError(t, service.SetReferrerByCode(ctx, c.ID, d.RefCode))

	stored, err := env.users.FindById(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReferrerID)
	assert.Equal(t, d.ID, *stored.ReferrerID)

	assert.ErrorIs(t, service.SetReferrerByCode(ctx, c.ID, "VT-none"), utils.ErrInvalidReferralCode)
}

func TestDeleteUser_ClearsReferrals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := newAccountService(env)

	referrer := env.createUser(t, nil)
	referred := env.createUser(t, referrer)

	require.NoError(t, service.DeleteUser(ctx, referrer.ID))

	stored, err := env.users.FindById(ctx, referred.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.ReferrerID)

	gone, err := env.users.FindById(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	assert.ErrorIs(t, service.DeleteUser(ctx, referrer.ID), utils.ErrUserNotFound)
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := newAccountService(env)
	policy := &TieredDiscountPolicy{}
	tours := env.tourService(policy, env.bonusService(policy, nil))

	referrer := env.createUser(t, nil)
	card := env.createCard(t, &db_models.MembershipCard{BonusAmount: decimal.NewFromInt(25)})
	membership := env.issue(t, referrer, card, env.days(30))

	booker := env.createUser(t, referrer)
	env.createUser(t, referrer)
	city := env.createCity(t, 1000)

	_, err := tours.BookTour(ctx, booker.ID, city.ID, "Tour")
	require.NoError(t, err)

	profile, err := service.GetProfile(ctx, referrer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), profile.TotalReferrals)
	require.Len(t, profile.ReferralUsers, 1)
	assert.Equal(t, booker.ID, profile.ReferralUsers[0].ID)
	require.NotNil(t, profile.ActiveMembership)
	assert.Equal(t, membership.UniqueCode, profile.ActiveMembership.UniqueCode)
	assert.Len(t, profile.Memberships, 1)
	assert.Len(t, profile.BonusHistory, 1)
	assert.Equal(t, "25.00", profile.Balance)

	_, err = service.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, utils.ErrUserNotFound)
}
