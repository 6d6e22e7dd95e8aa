// Package testutil provides an in-memory database for package tests.
package testutil

import (
	"testing"
	"time"

	"princip-gym/internal/adapters/persistence/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUser inserts a user with an optional membership row.
func SeedUser(t testing.TB, db *gorm.DB, email, name, role string, m *models.Membership) *models.User {
	t.Helper()

	u := &models.User{Email: email, Name: name, Role: role, PasswordHash: "x"}
	if err := db.Omit("Membership", "Checkins").Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if m != nil {
		m.UserID = u.ID
		if err := db.Omit("User").Create(m).Error; err != nil {
			t.Fatalf("seed membership: %v", err)
		}
		u.Membership = m
	}
	return u
}
