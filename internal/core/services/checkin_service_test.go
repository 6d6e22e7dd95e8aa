package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/pkg/qrcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckinServiceAdmitsAuthorizedMember(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.checkinService(fixedNow)

	u := env.seedNamed(t, "ana@example.com", "Ana", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.AddDate(0, 1, 0))})

	before, err := env.checkins.CountByUser(ctx, u.ID, nil)
	require.NoError(t, err)

	result, err := svc.CheckIn(ctx, u.ID, domain.ChannelManual)
	require.NoError(t, err)
	assert.True(t, result.Admitted)
	assert.Equal(t, "Ana", result.Name)
	assert.NotEmpty(t, result.CheckinID)
	require.NotNil(t, result.CheckedInAt)
	assert.True(t, fixedNow.Equal(*result.CheckedInAt))

	after, err := env.checkins.CountByUser(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)

	list, err := env.checkins.ListByUser(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ChannelManual, list[0].Method)
}

func TestCheckinServiceDuplicatesAreRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.checkinService(fixedNow)

	u := env.seed(t, "ana@example.com", &models.Membership{Active: true})

	first, err := svc.CheckIn(ctx, u.ID, domain.ChannelQR)
	require.NoError(t, err)
	second, err := svc.CheckIn(ctx, u.ID, domain.ChannelQR)
	require.NoError(t, err)

	assert.True(t, first.Admitted)
	assert.True(t, second.Admitted)
	assert.NotEqual(t, first.CheckinID, second.CheckinID)
	// no name falls back to the email
	assert.Equal(t, "ana@example.com", first.Name)

	n, err := env.checkins.CountByUser(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCheckinServiceDenials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.checkinService(fixedNow)

	cases := map[string]*models.Membership{
		"inactive":        {Active: false, ExpiresAt: ptr(fixedNow.AddDate(0, 1, 0))},
		"expired":         {Active: true, ExpiresAt: ptr(fixedNow.Add(-time.Second))},
		"expires-exactly": {Active: true, ExpiresAt: ptr(fixedNow)},
		"never-activated": {},
		"no-membership":   nil,
	}
	for name, m := range cases {
		u := env.seed(t, name+"@example.com", m)
		t.Run(name, func(t *testing.T) {
			result, err := svc.CheckIn(ctx, u.ID, domain.ChannelSelfCheckin)
			require.NoError(t, err)
			assert.False(t, result.Admitted)
			assert.Equal(t, domain.DeniedReason, result.Reason)
			assert.Empty(t, result.CheckinID)

			n, err := env.checkins.CountByUser(ctx, u.ID, nil)
			require.NoError(t, err)
			assert.Zero(t, n)
		})
	}
}

func TestCheckinServiceErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.checkinService(fixedNow)
	u := env.seed(t, "ana@example.com", &models.Membership{Active: true})

	_, err := svc.CheckIn(ctx, u.ID, "door")
	assert.True(t, errors.Is(err, domain.ErrInvalidChannel))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = svc.CheckIn(ctx, "00000000-0000-4000-8000-00000000dead", domain.ChannelQR)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestCheckinServiceScanAndManual(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.checkinService(fixedNow)
	u := env.seed(t, "ana@example.com", &models.Membership{Active: true})

	payload, err := qrcode.EncodePayload(u.ID)
	require.NoError(t, err)

	_, err = svc.ScanCheckIn(ctx, memberCaller, payload)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	result, err := svc.ScanCheckIn(ctx, adminCaller, payload)
	require.NoError(t, err)
	assert.True(t, result.Admitted)

	for _, bad := range []string{"https://gym.example.com/checkin", "garbage", `{"userId":"not-an-id"}`, ""} {
		_, err = svc.ScanCheckIn(ctx, adminCaller, bad)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "payload %q", bad)
	}

	_, err = svc.ManualCheckIn(ctx, memberCaller, u.ID)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	result, err = svc.ManualCheckIn(ctx, adminCaller, u.ID)
	require.NoError(t, err)
	assert.True(t, result.Admitted)

	list, err := env.checkins.ListByUser(ctx, u.ID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	methods := []string{list[0].Method, list[1].Method}
	assert.ElementsMatch(t, []string{domain.ChannelQR, domain.ChannelManual}, methods)
}

func TestCheckinServiceSelfCheckIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.checkinService(fixedNow)
	u := env.seed(t, "ana@example.com", &models.Membership{Active: true})

	result, err := svc.SelfCheckIn(ctx, u.Identity())
	require.NoError(t, err)
	assert.True(t, result.Admitted)

	list, err := env.checkins.ListByUser(ctx, u.ID, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.ChannelSelfCheckin, list[0].Method)
}

func TestCheckinServiceHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.seed(t, "ana@example.com", &models.Membership{Active: true})

	for i := 0; i < 3; i++ {
		svc := env.checkinService(fixedNow.Add(time.Duration(i) * time.Hour))
		_, err := svc.SelfCheckIn(ctx, u.Identity())
		require.NoError(t, err)
	}
	svc := env.checkinService(fixedNow)

	list, err := svc.History(ctx, u.Identity(), u.ID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

	list, err = svc.History(ctx, adminCaller, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	_, err = svc.History(ctx, memberCaller, u.ID, 10)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestCheckinServiceDayReport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	ana := env.seedNamed(t, "ana@example.com", "Ana", &models.Membership{Active: true})
	bob := env.seedNamed(t, "bob@example.com", "Bob", &models.Membership{Active: true})

	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	for _, at := range []struct {
		user *models.User
		when time.Time
	}{
		{ana, day.Add(8 * time.Hour)},
		{bob, day.Add(18 * time.Hour)},
		{ana, day.AddDate(0, 0, -1).Add(9 * time.Hour)},
		{ana, day.AddDate(0, -1, 0)},
	} {
		_, err := env.checkinService(at.when).CheckIn(ctx, at.user.ID, domain.ChannelQR)
		require.NoError(t, err)
	}

	svc := env.checkinService(fixedNow)
	_, err := svc.DayReport(ctx, memberCaller, day)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	report, err := svc.DayReport(ctx, adminCaller, day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", report.Date)
	assert.Equal(t, 2, report.Count)
	assert.Equal(t, int64(3), report.MonthTotal)
	require.Len(t, report.Checkins, 2)
	assert.Equal(t, "Bob", report.Checkins[0].Name)
	assert.Equal(t, "ana@example.com", report.Checkins[1].Email)
}
