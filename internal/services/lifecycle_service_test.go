package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"vitour/internal/config"
	"vitour/internal/models/db_models"
	"vitour/internal/repositories"
)

func TestSweepExpiredMemberships(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := NewLifecycleService(env.memberships, config.ExpiryDateOnly, env.clock(), env.logger)

	user := env.createUser(t, nil)
	card := env.createCard(t, &db_models.MembershipCard{DurationMonths: 1})
	expiring := env.issue(t, user, card, env.days(5))
	later := env.issue(t, user, card, env.days(40))
	openEnded := env.issue(t, user, card, nil)

	// The end date itself is still valid.
	count, err := service.SweepExpiredMemberships(ctx, *env.days(5))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = service.SweepExpiredMemberships(ctx, *env.days(6))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = service.SweepExpiredMemberships(ctx, *env.days(6))
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	stored, err := env.memberships.FindById(ctx, expiring.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	for _, id := range []*db_models.UserMembership{later, openEnded} {
		stored, err := env.memberships.FindById(ctx, id.ID)
		require.NoError(t, err)
		assert.True(t, stored.IsActive)
	}

	count, err = service.SweepExpiredMemberships(ctx, env.now.AddDate(10, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err = env.memberships.FindById(ctx, openEnded.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)
}

func TestSweepExpiredMemberships_NeverReactivates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := NewLifecycleService(env.memberships, config.ExpiryDateOnly, env.clock(), env.logger)

	user := env.createUser(t, nil)
	membership := env.issue(t, user, env.createCard(t, &db_models.MembershipCard{}), env.days(1))

	count, err := service.SweepExpiredMemberships(ctx, *env.days(3))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// An earlier asOf must not bring the card back.
	count, err = service.SweepExpiredMemberships(ctx, env.now)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	stored, err := env.memberships.FindById(ctx, membership.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestSweepExpiredMemberships_TourCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, nil)
	capped := env.createCard(t, &db_models.MembershipCard{DiscountPercent: 10, MaxTours: intPtr(2)})
	uncapped := env.createCard(t, &db_models.MembershipCard{DiscountPercent: 10, MaxTours: intPtr(0)})

	usedUp := env.issue(t, user, capped, env.days(30))
	inUse := env.issue(t, user, capped, env.days(30))
	noCap := env.issue(t, user, uncapped, env.days(30))
	for _, m := range []*db_models.UserMembership{usedUp, usedUp, inUse, noCap, noCap, noCap} {
		require.NoError(t, env.memberships.IncrementUsedTours(ctx, m.ID))
	}

	dateOnly := NewLifecycleService(env.memberships, config.ExpiryDateOnly, env.clock(), env.logger)
	count, err := dateOnly.SweepExpiredMemberships(ctx, env.now)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	withCap := NewLifecycleService(env.memberships, config.ExpiryDateOrTourCap, env.clock(), env.logger)
	count, err = withCap.SweepExpiredMemberships(ctx, env.now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := env.memberships.FindById(ctx, usedUp.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestSweepExpiredMemberships_CancelledContext(t *testing.T) {
	env := newTestEnv(t)
	service := NewLifecycleService(env.memberships, "", env.clock(), env.logger)

	user := env.createUser(t, nil)
	env.issue(t, user, env.createCard(t, &db_models.MembershipCard{}), env.days(-2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := service.SweepExpiredMemberships(ctx, env.now)
	assert.Error(t, err)
	assert.Equal(t, 0, count)
}

func TestRunPeriodicSweep_StopsWithContext(t *testing.T) {
	env := newTestEnv(t)
	service := NewLifecycleService(env.memberships, config.ExpiryDateOnly, env.clock(), env.logger)

	user := env.createUser(t, nil)
	membership := env.issue(t, user, env.createCard(t, &db_models.MembershipCard{}), env.days(-1))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		service.RunPeriodicSweep(ctx, 10*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		stored, err := env.memberships.FindById(context.Background(), membership.ID)
		return err == nil && stored != nil && !stored.IsActive
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("periodic sweep did not stop")
	}
}

// flakyMemberships fails Deactivate for one membership id.
type flakyMemberships struct {
	repositories.MembershipRepository
	failID uuid.UUID
}

func (f *flakyMemberships) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	if id == f.failID {
		return false, errors.New("connection reset")
	}
	return f.MembershipRepository.Deactivate(ctx, id)
}

func TestSweepExpiredMemberships_ContinuesPastFailedRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, nil)
	card := env.createCard(t, &db_models.MembershipCard{})
	first := env.issue(t, user, card, env.days(-3))
	failing := env.issue(t, user, card, env.days(-2))
	last := env.issue(t, user, card, env.days(-1))

	repo := &flakyMemberships{MembershipRepository: env.memberships, failID: failing.ID}
	service := NewLifecycleService(repo, config.ExpiryDateOnly, env.clock(), env.logger)

	count, err := service.SweepExpiredMemberships(ctx, env.now)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, m := range []*db_models.UserMembership{first, last} {
		stored, err := env.memberships.FindById(ctx, m.ID)
		require.NoError(t, err)
		assert.False(t, stored.IsActive)
	}
	stored, err := env.memberships.FindById(ctx, failing.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsActive)

	// Once the store recovers, the next run picks the row up.
	count, err = NewLifecycleService(env.memberships, config.ExpiryDateOnly, env.clock(), env.logger).
		SweepExpiredMemberships(ctx, env.now)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
