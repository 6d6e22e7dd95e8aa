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
	"princip-gym/internal/pkg/validator"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Sweep triggers
const (
	TriggerCron     = "cron"
	TriggerAdmin    = "admin"
	TriggerEndpoint = "endpoint"
	TriggerCLI      = "cli"
)

// recentlyExpiredWindow is how far back a sweep reports expiries
const recentlyExpiredWindow = 24 * time.Hour

// MembershipService handles admin membership mutations and the expiry sweep
type MembershipService struct {
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	log            *zap.Logger
	now            Clock
}

// NewMembershipService creates a new membership service
func NewMembershipService(
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	log *zap.Logger,
) *MembershipService {
	return &MembershipService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		log:            log,
		now:            utcNow,
	}
}

// ActivateInput represents a fresh activation. Exactly one of Months or Days is set.
type ActivateInput struct {
	Months     int      `json:"months" validate:"required_without=Days,excluded_with=Days,omitempty,min=1,max=36"`
	Days       int      `json:"days" validate:"omitempty,min=1,max=1095"`
	Plan       string   `json:"plan" validate:"omitempty,max=50"`
	Type       string   `json:"type" validate:"omitempty,oneof=Basic Premium VIP"`
	PaidAmount *float64 `json:"paid_amount" validate:"omitempty,gte=0"`
}

// ExtendInput represents an extension in calendar months
type ExtendInput struct {
	Months     int      `json:"months" validate:"required,min=1,max=36"`
	PaidAmount *float64 `json:"paid_amount" validate:"omitempty,gte=0"`
}

// MembershipStatus is a membership as shown to clients, with the predicate evaluated
type MembershipStatus struct {
	Active     bool       `json:"active"`
	ExpiresAt  *time.Time `json:"expires_at"`
	Plan       string     `json:"plan,omitempty"`
	Type       string     `json:"type,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	PaidAmount *float64   `json:"paid_amount,omitempty"`
	Authorized bool       `json:"authorized"`
	DaysLeft   *int       `json:"days_left"`
}

// NewMembershipStatus evaluates m at now. A nil membership reports as unauthorized.
func NewMembershipStatus(m *domain.Membership, now time.Time) *MembershipStatus {
	status := &MembershipStatus{
		Authorized: rules.IsAuthorized(m, now),
		DaysLeft:   rules.DaysRemaining(m, now),
	}
	if m != nil {
		status.Active = m.Active
		status.ExpiresAt = m.ExpiresAt
		status.Plan = m.Plan
		status.Type = m.Type
		status.PaidAt = m.PaidAt
		status.PaidAmount = m.PaidAmount
	}
	return status
}

// Activate starts (or restarts) a user's membership from now
func (s *MembershipService) Activate(ctx context.Context, caller domain.Identity, userID string, input *ActivateInput) (*MembershipStatus, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	d := domain.Duration{Months: input.Months, Days: input.Days}
	expiresAt := rules.ActivationExpiry(now, d)

	plan := input.Plan
	if plan == "" {
		plan = rules.DefaultPlan(d)
	}
	tier := input.Type
	if tier == "" {
		tier = rules.Classify(rules.DurationDays(now, d))
	}
	paid := input.PaidAmount
	if paid == nil && d.Days > 0 {
		price := rules.DefaultPrice(d.Days)
		paid = &price
	}

	m := user.Membership
	if m == nil {
		m = &models.Membership{UserID: user.ID}
	}
	m.Apply(&domain.Membership{
		Active:     true,
		ExpiresAt:  &expiresAt,
		Plan:       plan,
		Type:       tier,
		PaidAt:     &now,
		PaidAmount: paid,
	})

	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save membership: %w", err)
	}

	metrics.MembershipMutationsTotal.WithLabelValues("activate").Inc()
	s.log.Info("membership activated",
		zap.String("user_id", user.ID),
		zap.String("by", caller.UserID),
		zap.Time("expires_at", expiresAt),
		zap.String("type", tier),
	)

	return NewMembershipStatus(m.ToDomain(), now), nil
}

// Extend pushes expiry forward from the later of now and the current expiry.
// A user whose membership was never activated cannot be extended.
func (s *MembershipService) Extend(ctx context.Context, caller domain.Identity, userID string, input *ExtendInput) (*MembershipStatus, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	m := user.Membership
	if m == nil || (m.PaidAt == nil && m.ExpiresAt == nil) {
		return nil, domain.ErrMembershipNotFound
	}

	now := s.now()
	expiresAt := rules.ExtensionExpiry(m.ExpiresAt, now, input.Months)

	m.Active = true
	m.ExpiresAt = &expiresAt
	m.PaidAt = &now
	if input.PaidAmount != nil {
		m.PaidAmount = input.PaidAmount
	}

	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save membership: %w", err)
	}

	metrics.MembershipMutationsTotal.WithLabelValues("extend").Inc()
	s.log.Info("membership extended",
		zap.String("user_id", user.ID),
		zap.String("by", caller.UserID),
		zap.Int("months", input.Months),
		zap.Time("expires_at", expiresAt),
	)

	return NewMembershipStatus(m.ToDomain(), now), nil
}

// Deactivate clears the active flag and keeps the expiry for the record
func (s *MembershipService) Deactivate(ctx context.Context, caller domain.Identity, userID string) (*MembershipStatus, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := user.Membership
	if m == nil {
		return nil, domain.ErrMembershipNotFound
	}

	m.Active = false
	if err := s.membershipRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("save membership: %w", err)
	}

	metrics.MembershipMutationsTotal.WithLabelValues("deactivate").Inc()
	s.log.Info("membership deactivated", zap.String("user_id", user.ID), zap.String("by", caller.UserID))

	return NewMembershipStatus(m.ToDomain(), s.now()), nil
}

// ExpireNow runs the sweep on behalf of an admin
func (s *MembershipService) ExpireNow(ctx context.Context, caller domain.Identity) (*domain.SweepResult, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	return s.BulkExpireSweep(ctx, TriggerAdmin)
}

// BulkExpireSweep deactivates every active membership whose expiry has passed.
// Running it twice at the same instant deactivates nothing the second time.
func (s *MembershipService) BulkExpireSweep(ctx context.Context, trigger string) (*domain.SweepResult, error) {
	now := s.now()

	count, err := s.membershipRepo.ExpireDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("expire due memberships: %w", err)
	}

	recent, err := s.membershipRepo.ListExpiredBetween(ctx, now.Add(-recentlyExpiredWindow), now)
	if err != nil {
		return nil, fmt.Errorf("list recently expired: %w", err)
	}

	result := &domain.SweepResult{
		DeactivatedCount: count,
		RecentlyExpired:  make([]domain.ExpiredMembershipRef, 0, len(recent)),
		RanAt:            now,
	}
	for _, m := range recent {
		ref := domain.ExpiredMembershipRef{UserID: m.UserID, ExpiresAt: *m.ExpiresAt}
		if m.User != nil {
			ref.Email = m.User.Email
			ref.Name = m.User.Name
		}
		result.RecentlyExpired = append(result.RecentlyExpired, ref)
	}

	metrics.SweepRunsTotal.WithLabelValues(trigger).Inc()
	metrics.SweepDeactivatedTotal.Add(float64(count))
	s.log.Info("expiry sweep finished",
		zap.String("trigger", trigger),
		zap.Int64("deactivated", count),
		zap.Int("recently_expired", len(result.RecentlyExpired)),
	)

	return result, nil
}

func (s *MembershipService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
