package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/pkg/pagination"
	"princip-gym/internal/pkg/qrcode"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recentCheckinsPerUser is how many visits the admin user list shows per member
const recentCheckinsPerUser = 5

// UserService handles member profiles and admin user management
type UserService struct {
	userRepo    repositories.UserRepository
	checkinRepo repositories.CheckinRepository
	appURL      string
	log         *zap.Logger
	now         Clock
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repositories.UserRepository,
	checkinRepo repositories.CheckinRepository,
	appURL string,
	log *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		checkinRepo: checkinRepo,
		appURL:      strings.TrimRight(appURL, "/"),
		log:         log,
		now:         utcNow,
	}
}

// UserDetail is a user with the membership predicate evaluated
type UserDetail struct {
	*models.UserResponse
	Membership     *MembershipStatus `json:"membership"`
	RecentCheckins []*models.Checkin `json:"recent_checkins,omitempty"`
}

// ListUsersOutput represents list users output
type ListUsersOutput struct {
	Users []*UserDetail    `json:"users"`
	Meta  *pagination.Meta `json:"meta"`
}

// ListUsers lists all users, newest first, with membership status and recent visits
func (s *UserService) ListUsers(ctx context.Context, caller domain.Identity, params *pagination.Params) (*ListUsersOutput, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	if params == nil {
		params = pagination.NewParams(1, pagination.DefaultLimit)
	}

	users, total, err := s.userRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &ListUsersOutput{
		Users: make([]*UserDetail, 0, len(users)),
		Meta:  pagination.GetMeta(params, total),
	}
	for _, user := range users {
		recent, err := s.checkinRepo.ListByUser(ctx, user.ID, recentCheckinsPerUser)
		if err != nil {
			return nil, err
		}
		out.Users = append(out.Users, &UserDetail{
			UserResponse:   user.ToResponse(),
			Membership:     NewMembershipStatus(user.Membership.ToDomain(), now),
			RecentCheckins: recent,
		})
	}
	return out, nil
}

// GetUser returns one user for the admin panel
func (s *UserService) GetUser(ctx context.Context, caller domain.Identity, userID string) (*UserDetail, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrAdminRequired
	}
	return s.detail(ctx, userID, recentCheckinsPerUser)
}

// DeleteUser removes a user together with membership, check-ins and sessions
func (s *UserService) DeleteUser(ctx context.Context, caller domain.Identity, userID string) error {
	if !caller.IsAdmin() {
		return domain.ErrAdminRequired
	}
	if caller.UserID == userID {
		return domain.ErrCannotDeleteSelf
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}

	s.log.Info("user deleted", zap.String("user_id", userID), zap.String("by", caller.UserID))
	return nil
}

// Profile returns the caller's own account and membership
func (s *UserService) Profile(ctx context.Context, caller domain.Identity) (*UserDetail, error) {
	return s.detail(ctx, caller.UserID, 0)
}

// QRCode renders the caller's check-in QR code and remembers the payload issued
func (s *UserService) QRCode(ctx context.Context, caller domain.Identity) ([]byte, error) {
	user, err := s.getUser(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	payload, err := qrcode.EncodePayload(user.ID)
	if err != nil {
		return nil, err
	}
	png, err := qrcode.PNG(payload, qrcode.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}

	if user.QRData != payload {
		user.QRData = payload
		if err := s.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return png, nil
}

// GymQR renders the poster code that sends a phone to the self check-in page
func (s *UserService) GymQR() ([]byte, error) {
	return qrcode.PNG(s.appURL+"/checkin", qrcode.DefaultSize)
}

// Promote grants the admin role to the account with the given email.
// It is an operator action run outside the HTTP surface and takes no caller.
func (s *UserService) Promote(ctx context.Context, email string) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if user.Role == string(domain.RoleAdmin) {
		return user.ToResponse(), nil
	}

	user.Role = string(domain.RoleAdmin)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("user promoted to admin", zap.String("user_id", user.ID))
	return user.ToResponse(), nil
}

func (s *UserService) detail(ctx context.Context, userID string, recent int) (*UserDetail, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	d := &UserDetail{
		UserResponse: user.ToResponse(),
		Membership:   NewMembershipStatus(user.Membership.ToDomain(), s.now()),
	}
	if recent > 0 {
		if d.RecentCheckins, err = s.checkinRepo.ListByUser(ctx, user.ID, recent); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
