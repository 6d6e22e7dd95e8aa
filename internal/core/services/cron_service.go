package services

import (
	"context"
	"fmt"
	"time"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/config"
	"princip-gym/internal/core/rules"
	"princip-gym/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	reminderOnceTTL = 25 * time.Hour
	jobTimeout      = 2 * time.Minute
)

// CronService runs the scheduled background jobs
type CronService struct {
	sweeper          Sweeper
	membershipRepo   repositories.MembershipRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	notifier         Notifier
	once             cache.Store
	schedule         config.ScheduleConfig
	cron             *cron.Cron
	log              *zap.Logger
	now              Clock
}

// NewCronService creates a new cron service
func NewCronService(
	sweeper Sweeper,
	membershipRepo repositories.MembershipRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	notifier Notifier,
	once cache.Store,
	schedule config.ScheduleConfig,
	log *zap.Logger,
) *CronService {
	return &CronService{
		sweeper:          sweeper,
		membershipRepo:   membershipRepo,
		refreshTokenRepo: refreshTokenRepo,
		notifier:         notifier,
		once:             once,
		schedule:         schedule,
		cron:             cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cron.DiscardLogger))),
		log:              log,
		now:              utcNow,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func(context.Context) error
	}{
		{"expire-memberships", s.schedule.ExpireSpec, s.runSweep},
		{"expiry-reminders", s.schedule.ReminderSpec, func(ctx context.Context) error {
			_, err := s.SendExpiryReminders(ctx)
			return err
		}},
		{"refresh-token-cleanup", "@daily", s.cleanupRefreshTokens},
	}

	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		job := job
		if _, err := s.cron.AddFunc(job.spec, func() { s.run(job.name, job.run) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.name, job.spec, err)
		}
	}

	s.cron.Start()
	s.log.Info("cron scheduler started",
		zap.String("expire_spec", s.schedule.ExpireSpec),
		zap.String("reminder_spec", s.schedule.ReminderSpec),
	)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("cron scheduler stopped")
}

func (s *CronService) run(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		s.log.Error("cron job failed", zap.String("job", name), zap.Error(err))
	}
}

func (s *CronService) runSweep(ctx context.Context) error {
	_, err := s.sweeper.BulkExpireSweep(ctx, TriggerCron)
	return err
}

// SendExpiryReminders emails members whose authorized membership ends within
// the configured number of days. Each member gets at most one reminder per day.
func (s *CronService) SendExpiryReminders(ctx context.Context) (int, error) {
	now := s.now()
	horizon := now.AddDate(0, 0, s.schedule.ReminderDays)

	list, err := s.membershipRepo.ListActiveExpiringBetween(ctx, now, horizon)
	if err != nil {
		return 0, fmt.Errorf("list expiring memberships: %w", err)
	}

	sent := 0
	for _, m := range list {
		if m.User == nil {
			continue
		}
		daysLeft := rules.DaysRemaining(m.ToDomain(), now)
		if daysLeft == nil {
			continue
		}

		key := fmt.Sprintf("reminder:%s:%s", now.Format("2006-01-02"), m.UserID)
		first, err := s.once.Once(ctx, key, reminderOnceTTL)
		if err != nil {
			s.log.Warn("reminder dedup unavailable", zap.String("user_id", m.UserID), zap.Error(err))
		} else if !first {
			continue
		}

		if err := s.notifier.SendExpiryReminder(ctx, m.User, *daysLeft); err != nil {
			s.log.Error("expiry reminder failed", zap.String("user_id", m.UserID), zap.Error(err))
			continue
		}
		sent++
		metrics.RemindersSentTotal.Inc()
	}

	if sent > 0 {
		s.log.Info("expiry reminders sent", zap.Int("count", sent))
	}
	return sent, nil
}

func (s *CronService) cleanupRefreshTokens(ctx context.Context) error {
	n, err := s.refreshTokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info("expired refresh tokens removed", zap.Int64("count", n))
	}
	return nil
}
