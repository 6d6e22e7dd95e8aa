package config

import (
	"errors"
	"fmt"

	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAdminSeedIncomplete is returned when only one of ADMIN_EMAIL and ADMIN_PASSWORD is set
var ErrAdminSeedIncomplete = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must both be set")

// Seeder handles database seeding
type Seeder struct {
	db    *gorm.DB
	admin AdminSeedConfig
	log   *zap.Logger
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, admin AdminSeedConfig, log *zap.Logger) *Seeder {
	return &Seeder{db: db, admin: admin, log: log}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	created, err := s.SeedAdmin()
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		s.log.Info("admin user created", zap.String("email", s.admin.Email))
	}
	return nil
}

// SeedAdmin creates the bootstrap admin when no admin exists yet.
// It reports whether a user was created.
func (s *Seeder) SeedAdmin() (bool, error) {
	if s.admin.Email == "" && s.admin.Password == "" {
		return false, nil
	}
	if s.admin.Email == "" || s.admin.Password == "" {
		return false, ErrAdminSeedIncomplete
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("role = ?", "ADMIN").Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	var existing models.User
	err := s.db.Where("email = ?", s.admin.Email).First(&existing).Error
	switch {
	case err == nil:
		// promote the registered account instead of failing on the unique email
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"role":           "ADMIN",
			"email_verified": true,
		}).Error; err != nil {
			return false, err
		}
		return true, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, err
	}

	hashed, err := password.Hash(s.admin.Password)
	if err != nil {
		return false, err
	}

	admin := &models.User{
		Email:         s.admin.Email,
		Name:          s.admin.Name,
		PasswordHash:  hashed,
		Role:          "ADMIN",
		EmailVerified: true,
		Membership:    &models.Membership{},
	}
	if err := s.db.Create(admin).Error; err != nil {
		return false, err
	}
	return true, nil
}
