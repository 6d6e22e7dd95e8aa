package repositories

import (
	"context"
	"time"

	"princip-gym/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// membershipRepository implements MembershipRepository interface
type membershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

// GetByUserID gets the membership row of a user
func (r *membershipRepository) GetByUserID(ctx context.Context, userID string) (*models.Membership, error) {
	var m models.Membership
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Save inserts m when it has no ID yet, otherwise overwrites the row
func (r *membershipRepository) Save(ctx context.Context, m *models.Membership) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error
}

// ExpireDue flips every active membership whose expiry has passed to inactive
func (r *membershipRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("active = ?", true).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Updates(map[string]interface{}{"active": false})
	return res.RowsAffected, res.Error
}

// ListExpiredBetween lists memberships whose expiry fell in (from, to]
func (r *membershipRepository) ListExpiredBetween(ctx context.Context, from, to time.Time) ([]*models.Membership, error) {
	var list []*models.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("expires_at > ? AND expires_at <= ?", from, to).
		Order("expires_at DESC").
		Find(&list).Error
	return list, err
}

// ListActiveExpiringBetween lists active memberships expiring in (from, to]
func (r *membershipRepository) ListActiveExpiringBetween(ctx context.Context, from, to time.Time) ([]*models.Membership, error) {
	var list []*models.Membership
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("active = ?", true).
		Where("expires_at > ? AND expires_at <= ?", from, to).
		Order("expires_at ASC").
		Find(&list).Error
	return list, err
}

// CountAuthorized counts memberships that admit their owner at now
func (r *membershipRepository) CountAuthorized(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error
	return count, err
}

// CountExpiredFlagged counts memberships still flagged active past their expiry
func (r *membershipRepository) CountExpiredFlagged(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("active = ?", true).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Count(&count).Error
	return count, err
}

// CountInactive counts memberships with the active flag off
func (r *membershipRepository) CountInactive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("active = ?", false).
		Count(&count).Error
	return count, err
}

// SumPaidBetween sums payments recorded in [from, to)
func (r *membershipRepository) SumPaidBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Select("COALESCE(SUM(paid_amount), 0)").
		Where("paid_at >= ? AND paid_at < ?", from, to).
		Scan(&sum).Error
	return sum, err
}
