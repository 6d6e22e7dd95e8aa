package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/core/rules"
	"princip-gym/internal/pkg/metrics"
	"princip-gym/internal/pkg/qrcode"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// CheckinService admits members and records their visits
type CheckinService struct {
	userRepo    repositories.UserRepository
	checkinRepo repositories.CheckinRepository
	log         *zap.Logger
	now         Clock
}

// NewCheckinService creates a new check-in service
func NewCheckinService(
	userRepo repositories.UserRepository,
	checkinRepo repositories.CheckinRepository,
	log *zap.Logger,
) *CheckinService {
	return &CheckinService{
		userRepo:    userRepo,
		checkinRepo: checkinRepo,
		log:         log,
		now:         utcNow,
	}
}

// CheckIn evaluates the user's membership and records a visit when admitted.
// A denial is a normal result, not an error. Every admitted call creates a new record.
func (s *CheckinService) CheckIn(ctx context.Context, userID, channel string) (*domain.CheckinResult, error) {
	if !domain.ValidChannel(channel) {
		return nil, domain.ErrInvalidChannel
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	if !rules.IsAuthorized(user.Membership.ToDomain(), now) {
		metrics.CheckinsTotal.WithLabelValues(channel, "denied").Inc()
		s.log.Info("check-in denied", zap.String("user_id", user.ID), zap.String("channel", channel))
		return &domain.CheckinResult{Admitted: false, Reason: domain.DeniedReason}, nil
	}

	checkin := &models.Checkin{UserID: user.ID, Method: channel, CreatedAt: now}
	if err := s.checkinRepo.Create(ctx, checkin); err != nil {
		return nil, fmt.Errorf("record check-in: %w", err)
	}

	metrics.CheckinsTotal.WithLabelValues(channel, "admitted").Inc()
	s.log.Info("check-in admitted",
		zap.String("user_id", user.ID),
		zap.String("channel", channel),
		zap.String("checkin_id", checkin.ID),
	)

	return &domain.CheckinResult{
		Admitted:    true,
		Name:        user.DisplayName(),
		CheckinID:   checkin.ID,
		CheckedInAt: &checkin.CreatedAt,
	}, nil
}

// SelfCheckIn admits the caller through the self-service channel
func (s *CheckinService) SelfCheckIn(ctx context.Context, caller domain.Identity) (*domain.CheckinResult, error) {
	return s.CheckIn(ctx, caller.UserID, domain.ChannelSelfCheckin)
}

// ScanCheckIn admits the member encoded in a scanned QR payload
func (s *CheckinService) ScanCheckIn(ctx context.Context, caller domain.Identity, payload string) (*domain.CheckinResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	userID, err := qrcode.DecodePayload(payload)
	if err != nil {
		return nil, err
	}
	return s.CheckIn(ctx, userID, domain.ChannelQR)
}

// ManualCheckIn lets front-desk staff admit a member by id
func (s *CheckinService) ManualCheckIn(ctx context.Context, caller domain.Identity, userID string) (*domain.CheckinResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	return s.CheckIn(ctx, userID, domain.ChannelManual)
}

// History lists a member's recent check-ins. Members see only their own.
func (s *CheckinService) History(ctx context.Context, caller domain.Identity, userID string, limit int) ([]*models.Checkin, error) {
	if caller.UserID != userID && !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return s.checkinRepo.ListByUser(ctx, userID, limit)
}

// DayReportEntry is one visit in the daily report
type DayReportEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Method    string    `json:"method"`
	CreatedAt time.Time `json:"created_at"`
}

// DayReport lists one day's visits plus the month-to-date total
type DayReport struct {
	Date       string           `json:"date"`
	Count      int              `json:"count"`
	MonthTotal int64            `json:"month_total"`
	Checkins   []DayReportEntry `json:"checkins"`
}

// DayReport builds the admin view of a calendar day (UTC)
func (s *CheckinService) DayReport(ctx context.Context, caller domain.Identity, day time.Time) (*DayReport, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	list, err := s.checkinRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	monthStart := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthTotal, err := s.checkinRepo.CountBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}

	report := &DayReport{
		Date:       start.Format("2006-01-02"),
		Count:      len(list),
		MonthTotal: monthTotal,
		Checkins:   make([]DayReportEntry, 0, len(list)),
	}
	for _, c := range list {
		entry := DayReportEntry{ID: c.ID, UserID: c.UserID, Method: c.Method, CreatedAt: c.CreatedAt}
		if c.User != nil {
			entry.Name = c.User.Name
			entry.Email = c.User.Email
		}
		report.Checkins = append(report.Checkins, entry)
	}
	return report, nil
}
