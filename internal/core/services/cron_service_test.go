package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCronService(t *testing.T, env *testEnv, notifier Notifier, store cache.Store, now time.Time) *CronService {
	t.Helper()
	schedule := config.ScheduleConfig{ExpireSpec: "@every 1h", ReminderSpec: "0 9 * * *", ReminderDays: 3}
	svc := NewCronService(env.membershipService(now), env.memberships, env.tokens, notifier, store, schedule, env.log)
	svc.now = clockAt(now)
	return svc
}

func TestCronServiceSendExpiryReminders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	soon := env.seed(t, "soon@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.Add(36 * time.Hour))})
	env.seed(t, "later@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.AddDate(0, 0, 10))})
	env.seed(t, "off@example.com", &models.Membership{Active: false, ExpiresAt: ptr(fixedNow.Add(36 * time.Hour))})
	env.seed(t, "gone@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.Add(-time.Hour))})

	notifier := new(mockNotifier)
	notifier.On("SendExpiryReminder", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == soon.ID
	}), 2).Return(nil).Once()

	svc := newCronService(t, env, notifier, cache.NewRedisStoreFromClient(client), fixedNow)

	sent, err := svc.SendExpiryReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	// the same day never mails twice
	sent, err = svc.SendExpiryReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	notifier.AssertExpectations(t)
}

func TestCronServiceReminderFailureIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "soon@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.Add(12 * time.Hour))})

	notifier := new(mockNotifier)
	notifier.On("SendExpiryReminder", mock.Anything, mock.Anything, 1).Return(errors.New("smtp down"))

	svc := newCronService(t, env, notifier, cache.NoopStore{}, fixedNow)
	sent, err := svc.SendExpiryReminders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
	notifier.AssertNumberOfCalls(t, "SendExpiryReminder", 1)
}

func TestCronServiceJobs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.seed(t, "old@example.com", &models.Membership{Active: true, ExpiresAt: ptr(fixedNow.Add(-time.Minute))})
	require.NoError(t, env.tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "stale", ExpiresAt: fixedNow.Add(-time.Hour)}))
	require.NoError(t, env.tokens.Create(ctx, &models.RefreshToken{UserID: u.ID, TokenHash: "live", ExpiresAt: fixedNow.Add(time.Hour)}))

	svc := newCronService(t, env, new(mockNotifier), cache.NoopStore{}, fixedNow)

	require.NoError(t, svc.runSweep(ctx))
	m, err := env.memberships.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, m.Active)

	require.NoError(t, svc.cleanupRefreshTokens(ctx))
	_, err = env.tokens.GetByTokenHash(ctx, "stale")
	assert.Error(t, err)
	_, err = env.tokens.GetByTokenHash(ctx, "live")
	assert.NoError(t, err)
}

func TestCronServiceStartRejectsBadSpec(t *testing.T) {
	env := newTestEnv(t)
	svc := newCronService(t, env, new(mockNotifier), cache.NoopStore{}, fixedNow)
	svc.schedule.ExpireSpec = "not a spec"
	assert.Error(t, svc.Start())

	ok := newCronService(t, env, new(mockNotifier), cache.NoopStore{}, fixedNow)
	require.NoError(t, ok.Start())
	ok.Stop()
}
