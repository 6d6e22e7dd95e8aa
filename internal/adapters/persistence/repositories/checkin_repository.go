package repositories

import (
	"context"
	"time"

	"princip-gym/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// checkinRepository implements CheckinRepository interface
type checkinRepository struct {
	db *gorm.DB
}

// NewCheckinRepository creates a new check-in repository
func NewCheckinRepository(db *gorm.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

// Create appends a check-in record
func (r *checkinRepository) Create(ctx context.Context, checkin *models.Checkin) error {
	return r.db.WithContext(ctx).Omit("User").Create(checkin).Error
}

// ListByUser lists a user's most recent check-ins, newest first
func (r *checkinRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Checkin, error) {
	var list []*models.Checkin
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// CountByUser counts a user's check-ins, optionally only those at or after since
func (r *checkinRepository) CountByUser(ctx context.Context, userID string, since *time.Time) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Checkin{}).Where("user_id = ?", userID)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	err := q.Count(&count).Error
	return count, err
}

// ListBetween lists check-ins in [from, to) with their user, newest first
func (r *checkinRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*models.Checkin, error) {
	var list []*models.Checkin
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// CountBetween counts check-ins in [from, to)
func (r *checkinRepository) CountBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Checkin{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}
