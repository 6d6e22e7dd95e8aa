package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Check-in channels. All of them go through the same admission flow.
const (
	ChannelQR          = "qr"
	ChannelManual      = "manual"
	ChannelSelfCheckin = "self-checkin"
)

// Membership tiers
const (
	TierBasic   = "Basic"
	TierPremium = "Premium"
	TierVIP     = "VIP"
)

// DeniedReason is returned to the caller when a check-in is refused.
const DeniedReason = "membership inactive or expired"

// ValidChannel reports whether ch is a known check-in channel tag.
func ValidChannel(ch string) bool {
	switch ch {
	case ChannelQR, ChannelManual, ChannelSelfCheckin:
		return true
	}
	return false
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

// IsAdmin returns true if the caller holds the ADMIN role
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Membership is the rule-relevant view of a member's subscription.
type Membership struct {
	UserID     string
	Active     bool
	ExpiresAt  *time.Time
	Plan       string
	Type       string
	PaidAt     *time.Time
	PaidAmount *float64
}

// Duration is a membership length expressed either in calendar months or in days.
// Exactly one of the fields is expected to be positive.
type Duration struct {
	Months int
	Days   int
}

// CheckinResult is the outcome of an admission attempt.
type CheckinResult struct {
	Admitted    bool       `json:"admitted"`
	Name        string     `json:"name,omitempty"`
	Reason      string     `json:"reason,omitempty"`
	CheckinID   string     `json:"checkin_id,omitempty"`
	CheckedInAt *time.Time `json:"checked_in_at,omitempty"`
}

// SweepResult summarises one expiry sweep run.
type SweepResult struct {
	DeactivatedCount int64                 `json:"deactivated_count"`
	RecentlyExpired  []ExpiredMembershipRef `json:"recently_expired"`
	RanAt            time.Time             `json:"ran_at"`
}

// ExpiredMembershipRef identifies a membership whose expiry passed recently.
type ExpiredMembershipRef struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
