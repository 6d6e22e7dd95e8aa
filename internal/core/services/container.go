package services

import (
	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/config"
	"princip-gym/internal/pkg/mailer"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container wires repositories into the application services
type Container struct {
	Users        repositories.UserRepository
	Auth         *AuthService
	User         *UserService
	Membership   *MembershipService
	Checkin      *CheckinService
	Dashboard    *DashboardService
	Notification *NotificationService
	Cron         *CronService
}

// NewContainer builds every service over one database handle
func NewContainer(db *gorm.DB, cfg *config.Config, store cache.Store, m mailer.Mailer, log *zap.Logger) *Container {
	userRepo := repositories.NewUserRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	checkinRepo := repositories.NewCheckinRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	notification := NewNotificationService(m, cfg.AppURL, log)
	membership := NewMembershipService(userRepo, membershipRepo, log)

	return &Container{
		Users:        userRepo,
		Auth:         NewAuthService(userRepo, refreshTokenRepo, store, notification, cfg, log),
		User:         NewUserService(userRepo, checkinRepo, cfg.AppURL, log),
		Membership:   membership,
		Checkin:      NewCheckinService(userRepo, checkinRepo, log),
		Dashboard:    NewDashboardService(userRepo, membershipRepo, checkinRepo),
		Notification: notification,
		Cron:         NewCronService(membership, membershipRepo, refreshTokenRepo, notification, store, cfg.Schedule, log),
	}
}
