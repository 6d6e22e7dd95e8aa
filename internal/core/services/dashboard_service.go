package services

import (
	"context"
	"errors"
	"time"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/core/domain"

	"gorm.io/gorm"
)

// memberRecentCheckins is how many visits the member dashboard lists
const memberRecentCheckins = 10

// DashboardService handles dashboard operations
type DashboardService struct {
	userRepo       repositories.UserRepository
	membershipRepo repositories.MembershipRepository
	checkinRepo    repositories.CheckinRepository
	now            Clock
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repositories.UserRepository,
	membershipRepo repositories.MembershipRepository,
	checkinRepo repositories.CheckinRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		checkinRepo:    checkinRepo,
		now:            utcNow,
	}
}

// ============================================================
// Admin Dashboard
// ============================================================

// AdminDashboardData represents admin dashboard data
type AdminDashboardData struct {
	// User Statistics
	TotalUsers  int64 `json:"total_users"`
	TotalAdmins int64 `json:"total_admins"`

	// Membership Statistics
	AuthorizedMembers  int64 `json:"authorized_members"`
	ExpiredStillActive int64 `json:"expired_still_active"`
	InactiveMembers    int64 `json:"inactive_members"`

	// Visits
	CheckinsToday     int64 `json:"checkins_today"`
	CheckinsThisMonth int64 `json:"checkins_this_month"`

	// Revenue
	RevenueThisMonth float64 `json:"revenue_this_month"`
}

// GetAdminDashboard returns admin dashboard data
func (s *DashboardService) GetAdminDashboard(ctx context.Context, caller domain.Identity) (*AdminDashboardData, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}

	now := s.now()
	today := startOfDay(now)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	data := &AdminDashboardData{}
	var err error

	if data.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if data.TotalAdmins, err = s.userRepo.CountByRole(ctx, string(domain.RoleAdmin)); err != nil {
		return nil, err
	}
	if data.AuthorizedMembers, err = s.membershipRepo.CountAuthorized(ctx, now); err != nil {
		return nil, err
	}
	if data.ExpiredStillActive, err = s.membershipRepo.CountExpiredFlagged(ctx, now); err != nil {
		return nil, err
	}
	if data.InactiveMembers, err = s.membershipRepo.CountInactive(ctx); err != nil {
		return nil, err
	}
	if data.CheckinsToday, err = s.checkinRepo.CountBetween(ctx, today, today.AddDate(0, 0, 1)); err != nil {
		return nil, err
	}
	if data.CheckinsThisMonth, err = s.checkinRepo.CountBetween(ctx, month, month.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}
	if data.RevenueThisMonth, err = s.membershipRepo.SumPaidBetween(ctx, month, month.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}

	return data, nil
}

// ============================================================
// Member Dashboard
// ============================================================

// MemberDashboardData represents the member's own dashboard
type MemberDashboardData struct {
	User              *models.UserResponse `json:"user"`
	Membership        *MembershipStatus    `json:"membership"`
	TotalCheckins     int64                `json:"total_checkins"`
	CheckinsThisMonth int64                `json:"checkins_this_month"`
	CheckinsLastWeek  int64                `json:"checkins_last_7_days"`
	RecentCheckins    []*models.Checkin    `json:"recent_checkins"`
}

// GetMemberDashboard returns the caller's dashboard
func (s *DashboardService) GetMemberDashboard(ctx context.Context, caller domain.Identity) (*MemberDashboardData, error) {
	user, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	week := now.AddDate(0, 0, -7)

	data := &MemberDashboardData{
		User:       user.ToResponse(),
		Membership: NewMembershipStatus(user.Membership.ToDomain(), now),
	}
	if data.TotalCheckins, err = s.checkinRepo.CountByUser(ctx, user.ID, nil); err != nil {
		return nil, err
	}
	if data.CheckinsThisMonth, err = s.checkinRepo.CountByUser(ctx, user.ID, &month); err != nil {
		return nil, err
	}
	if data.CheckinsLastWeek, err = s.checkinRepo.CountByUser(ctx, user.ID, &week); err != nil {
		return nil, err
	}
	if data.RecentCheckins, err = s.checkinRepo.ListByUser(ctx, user.ID, memberRecentCheckins); err != nil {
		return nil, err
	}

	return data, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
