package services

import (
	"context"
	"time"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/core/domain"
)

// Clock returns the current instant. Services default to UTC wall time.
type Clock func() time.Time

func utcNow() time.Time {
	return time.Now().UTC()
}

// Notifier sends member-facing messages. NotificationService is the production implementation.
type Notifier interface {
	SendVerification(ctx context.Context, user *models.User, token string) error
	SendExpiryReminder(ctx context.Context, user *models.User, daysLeft int) error
}

// Sweeper runs the membership expiry sweep. MembershipService implements it.
type Sweeper interface {
	BulkExpireSweep(ctx context.Context, trigger string) (*domain.SweepResult, error)
}
