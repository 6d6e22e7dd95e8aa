package models

import (
	"time"

	"princip-gym/internal/core/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents users table
type User struct {
	ID                string      `gorm:"primaryKey;size:36" json:"id"`
	Email             string      `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name              string      `gorm:"size:100" json:"name"`
	PasswordHash      string      `gorm:"column:password;size:255;not null" json:"-"`
	Role              string      `gorm:"size:20;default:'USER';index" json:"role"`
	EmailVerified     bool        `gorm:"default:false" json:"email_verified"`
	VerificationToken *string     `gorm:"uniqueIndex;size:64" json:"-"`
	QRData            string      `gorm:"size:255" json:"qr_data,omitempty"`
	CreatedAt         time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	Membership        *Membership `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"membership,omitempty"`
	Checkins          []Checkin   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"checkins,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName is the name shown at the front desk, falling back to email
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Identity returns the caller identity carried in tokens
func (u *User) Identity() domain.Identity {
	return domain.Identity{UserID: u.ID, Email: u.Email, Role: domain.Role(u.Role)}
}

// UserResponse DTO
type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

// Membership represents memberships table. One row per user.
type Membership struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	UserID     string     `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	Active     bool       `gorm:"default:false;index:idx_memberships_active_expiry,priority:1" json:"active"`
	ExpiresAt  *time.Time `gorm:"index:idx_memberships_active_expiry,priority:2" json:"expires_at"`
	Plan       string     `gorm:"size:50" json:"plan,omitempty"`
	Type       string     `gorm:"size:20" json:"type,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	PaidAmount *float64   `gorm:"type:decimal(10,2)" json:"paid_amount,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	User       *User      `gorm:"foreignKey:UserID" json:"-"`
}

func (Membership) TableName() string {
	return "memberships"
}

func (m *Membership) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// ToDomain returns the rule-relevant snapshot. A nil receiver yields nil.
func (m *Membership) ToDomain() *domain.Membership {
	if m == nil {
		return nil
	}
	return &domain.Membership{
		UserID:     m.UserID,
		Active:     m.Active,
		ExpiresAt:  m.ExpiresAt,
		Plan:       m.Plan,
		Type:       m.Type,
		PaidAt:     m.PaidAt,
		PaidAmount: m.PaidAmount,
	}
}

// Apply copies a snapshot's mutable fields onto the row
func (m *Membership) Apply(d *domain.Membership) {
	m.Active = d.Active
	m.ExpiresAt = d.ExpiresAt
	m.Plan = d.Plan
	m.Type = d.Type
	m.PaidAt = d.PaidAt
	m.PaidAmount = d.PaidAmount
}

// Checkin represents checkins table. Rows are append-only.
type Checkin struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"index;size:36;not null" json:"user_id"`
	Method    string    `gorm:"size:20;not null" json:"method"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Checkin) TableName() string {
	return "checkins"
}

func (c *Checkin) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	UserID    string     `gorm:"index;size:36;not null" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) BeforeCreate(*gorm.DB) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	return nil
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Membership{},
		&Checkin{},
		&RefreshToken{},
	)
}
