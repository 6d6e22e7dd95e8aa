package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMembershipServiceActivate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)
	svc := env.membershipService(now)

	u := env.seed(t, "ana@example.com", &models.Membership{})

	status, err := svc.Activate(ctx, adminCaller, u.ID, &ActivateInput{Months: 1})
	require.NoError(t, err)

	wantExpiry := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC)
	assert.True(t, status.Active)
	assert.True(t, status.Authorized)
	require.NotNil(t, status.ExpiresAt)
	assert.True(t, wantExpiry.Equal(*status.ExpiresAt))
	assert.Equal(t, "Monthly", status.Plan)
	assert.Equal(t, domain.TierBasic, status.Type)
	require.NotNil(t, status.DaysLeft)
	assert.Equal(t, 29, *status.DaysLeft)

	stored, err := env.memberships.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
	require.NotNil(t, stored.ExpiresAt)
	assert.True(t, wantExpiry.Equal(*stored.ExpiresAt))
	require.NotNil(t, stored.PaidAt)
	assert.True(t, now.Equal(*stored.PaidAt))
}

func TestMembershipServiceActivateDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)

	u := env.seed(t, "ana@example.com", nil)

	status, err := svc.Activate(ctx, adminCaller, u.ID, &ActivateInput{Days: 365})
	require.NoError(t, err)
	assert.Equal(t, domain.TierVIP, status.Type)
	assert.Equal(t, "Yearly", status.Plan)
	require.NotNil(t, status.PaidAmount)
	assert.InDelta(t, 1200.0, *status.PaidAmount, 0.001)
	assert.True(t, fixedNow.AddDate(0, 0, 365).Equal(*status.ExpiresAt))

	// a user without a membership row gets one
	stored, err := env.memberships.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestMembershipServiceActivateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)
	u := env.seed(t, "ana@example.com", &models.Membership{})

	for name, input := range map[string]*ActivateInput{
		"neither":  {},
		"both":     {Months: 1, Days: 30},
		"negative": {Days: -1},
		"too long": {Months: 48},
		"bad tier": {Months: 1, Type: "Gold"},
		"nil":      nil,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Activate(ctx, adminCaller, u.ID, input)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}

	_, err := svc.Activate(ctx, adminCaller, "00000000-0000-4000-8000-00000000dead", &ActivateInput{Months: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMembershipServiceRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)
	u := env.seed(t, "ana@example.com", &models.Membership{})

	_, err := svc.Activate(ctx, memberCaller, u.ID, &ActivateInput{Months: 1})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = svc.Extend(ctx, memberCaller, u.ID, &ExtendInput{Months: 1})
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = svc.Deactivate(ctx, memberCaller, u.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	_, err = svc.ExpireNow(ctx, memberCaller)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	m, err := env.memberships.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, m.Active)
}

func TestMembershipServiceExtendFromFutureExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)
	svc := env.membershipService(now)

	expiry := time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)
	u := env.seed(t, "ana@example.com", &models.Membership{Active: true, ExpiresAt: &expiry, PaidAt: ptr(now.AddDate(0, -1, 0))})

	status, err := svc.Extend(ctx, adminCaller, u.ID, &ExtendInput{Months: 1})
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC).Equal(*status.ExpiresAt))
	assert.True(t, status.Active)
}

func TestMembershipServiceExtendFromPastExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)

	u := env.seed(t, "ana@example.com", &models.Membership{Active: false, ExpiresAt: ptr(fixedNow.AddDate(0, 0, -10))})

	status, err := svc.Extend(ctx, adminCaller, u.ID, &ExtendInput{Months: 2, PaidAmount: ptr(240.0)})
	require.NoError(t, err)
	assert.True(t, fixedNow.AddDate(0, 2, 0).Equal(*status.ExpiresAt))
	assert.True(t, status.Authorized)
	assert.InDelta(t, 240.0, *status.PaidAmount, 0.001)
}

func TestMembershipServiceExtendNeverActivated(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)

	empty := env.seed(t, "empty@example.com", &models.Membership{})
	none := env.seed(t, "none@example.com", nil)

	for _, id := range []string{empty.ID, none.ID} {
		_, err := svc.Extend(ctx, adminCaller, id, &ExtendInput{Months: 1})
		assert.True(t, errors.Is(err, domain.ErrMembershipNotFound))
		assert.True(t, errors.Is(err, domain.ErrNotFound))
	}
}

func TestMembershipServiceDeactivateKeepsExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)

	expiry := fixedNow.AddDate(0, 1, 0)
	u := env.seed(t, "ana@example.com", &models.Membership{Active: true, ExpiresAt: &expiry})

	status, err := svc.Deactivate(ctx, adminCaller, u.ID)
	require.NoError(t, err)
	assert.False(t, status.Active)
	assert.False(t, status.Authorized)
	require.NotNil(t, status.ExpiresAt)
	assert.True(t, expiry.Equal(*status.ExpiresAt))
}

func TestMembershipServiceSweepIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.membershipService(fixedNow)

	expired := env.seed(t, "old@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.Add(-2 * time.Hour))})
	env.seed(t, "stale@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.AddDate(0, 0, -5))})
	live := env.seed(t, "live@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.Add(time.Hour))})
	env.seed(t, "open@example.com", &models.Membership{Active: true})

	first, err := svc.BulkExpireSweep(ctx, TriggerCron)
	require.NoError(t, err)
	assert.Equal(t, int64(2), first.DeactivatedCount)
	require.Len(t, first.RecentlyExpired, 1)
	assert.Equal(t, expired.ID, first.RecentlyExpired[0].UserID)
	assert.Equal(t, "old@example.com", first.RecentlyExpired[0].Email)

	second, err := svc.BulkExpireSweep(ctx, TriggerCron)
	require.NoError(t, err)
	assert.Zero(t, second.DeactivatedCount)

	m, err := env.memberships.GetByUserID(ctx, live.ID)
	require.NoError(t, err)
	assert.True(t, m.Active)

	result, err := svc.ExpireNow(ctx, adminCaller)
	require.NoError(t, err)
	assert.Zero(t, result.DeactivatedCount)
}
