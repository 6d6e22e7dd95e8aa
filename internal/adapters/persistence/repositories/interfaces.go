package repositories

import (
	"context"
	"time"

	"princip-gym/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// MembershipRepository defines membership repository interface
type MembershipRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Membership, error)
	Save(ctx context.Context, m *models.Membership) error
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	ListExpiredBetween(ctx context.Context, from, to time.Time) ([]*models.Membership, error)
	ListActiveExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Membership, error)
	CountAuthorized(ctx context.Context, now time.Time) (int64, error)
	CountExpiredFlagged(ctx context.Context, now time.Time) (int64, error)
	CountInactive(ctx context.Context) (int64, error)
	SumPaidBetween(ctx context.Context, from, to time.Time) (float64, error)
}

// CheckinRepository defines check-in repository interface
type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.Checkin) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Checkin, error)
	CountByUser(ctx context.Context, userID string, since *time.Time) (int64, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*models.Checkin, error)
	CountBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
