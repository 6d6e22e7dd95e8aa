package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardServiceAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewDashboardService(env.users, env.memberships, env.checkins)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = clockAt(now)

	testutil.SeedUser(t, env.db, "admin@example.com", "", string(domain.RoleAdmin), nil)
	paid := env.seed(t, "paid@example.com", &models.Membership{
		Active:     true,
		ExpiresAt:  ptr(now.AddDate(0, 1, 0)),
		PaidAt:     ptr(now.Add(-time.Hour)),
		PaidAmount: ptr(120.0),
	})
	env.seed(t, "flagged@example.com", &models.Membership{Active: true, ExpiresAt: ptr(now.Add(-time.Hour))})
	env.seed(t, "inactive@example.com", &models.Membership{})

	for _, when := range []time.Time{now.Add(-time.Hour), now.AddDate(0, 0, -3), now.AddDate(0, -1, 0)} {
		_, err := env.checkinService(when).CheckIn(ctx, paid.ID, domain.ChannelQR)
		require.NoError(t, err)
	}

	_, err := svc.GetAdminDashboard(ctx, memberCaller)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	data, err := svc.GetAdminDashboard(ctx, adminCaller)
	require.NoError(t, err)
	assert.Equal(t, int64(4), data.TotalUsers)
	assert.Equal(t, int64(1), data.TotalAdmins)
	assert.Equal(t, int64(1), data.AuthorizedMembers)
	assert.Equal(t, int64(1), data.ExpiredStillActive)
	assert.Equal(t, int64(1), data.InactiveMembers)
	assert.Equal(t, int64(1), data.CheckinsToday)
	assert.Equal(t, int64(2), data.CheckinsThisMonth)
	assert.InDelta(t, 120.0, data.RevenueThisMonth, 0.001)
}

func TestDashboardServiceMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewDashboardService(env.users, env.memberships, env.checkins)
	svc.now = clockAt(fixedNow)

	u := env.seed(t, "ana@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.AddDate(0, 0, 5))})
	for _, when := range []time.Time{fixedNow.Add(-time.Hour), fixedNow.AddDate(0, 0, -3), fixedNow.AddDate(0, 0, -20)} {
		_, err := env.checkinService(when).CheckIn(ctx, u.ID, domain.ChannelSelfCheckin)
		require.NoError(t, err)
	}

	data, err := svc.GetMemberDashboard(ctx, u.Identity())
	require.NoError(t, err)
	assert.True(t, data.Membership.Authorized)
	require.NotNil(t, data.Membership.DaysLeft)
	assert.Equal(t, 5, *data.Membership.DaysLeft)
	assert.Equal(t, int64(3), data.TotalCheckins)
	// only today's visit falls on or after the first of the month
	assert.Equal(t, int64(1), data.CheckinsThisMonth)
	assert.Equal(t, int64(2), data.CheckinsLastWeek)
	assert.Len(t, data.RecentCheckins, 3)

	_, err = svc.GetMemberDashboard(ctx, memberCaller)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
