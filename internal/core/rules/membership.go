// Package rules holds the membership rules engine. Every function is pure and
// deterministic for a given now; persistence and clocks live in the services.
package rules

import (
	"fmt"
	"math"
	"time"

	"princip-gym/internal/core/domain"
)

const day = 24 * time.Hour

// Tier thresholds in days. A duration strictly above a threshold earns the tier.
const (
	vipThresholdDays     = 90
	premiumThresholdDays = 30
)

// IsAuthorized reports whether m admits its owner at instant now.
func IsAuthorized(m *domain.Membership, now time.Time) bool {
	if m == nil || !m.Active {
		return false
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(now)
}

// DaysRemaining returns the ceiling of whole days until expiry, or nil when the
// membership has no expiry. Past expiries yield zero or negative values.
func DaysRemaining(m *domain.Membership, now time.Time) *int {
	if m == nil || m.ExpiresAt == nil {
		return nil
	}
	days := int(math.Ceil(float64(m.ExpiresAt.Sub(now)) / float64(day)))
	return &days
}

// AddMonths adds n calendar months to t. When the target month is shorter than
// t's day-of-month the day is clamped to the target month's last day.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	first := time.Date(y, m+time.Month(n), 1, hh, mm, ss, t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// ActivationExpiry computes the expiry of a fresh activation starting at now.
func ActivationExpiry(now time.Time, d domain.Duration) time.Time {
	if d.Months > 0 {
		return AddMonths(now, d.Months)
	}
	return now.AddDate(0, 0, d.Days)
}

// ExtensionExpiry extends from whichever is later of now and the current expiry.
func ExtensionExpiry(current *time.Time, now time.Time, months int) time.Time {
	base := now
	if current != nil && current.After(now) {
		base = *current
	}
	return AddMonths(base, months)
}

// DurationDays converts d into a day count measured from now.
func DurationDays(now time.Time, d domain.Duration) int {
	if d.Months > 0 {
		return int(math.Round(float64(AddMonths(now, d.Months).Sub(now)) / float64(day)))
	}
	return d.Days
}

// Classify maps a membership length in days to its tier.
func Classify(durationDays int) string {
	switch {
	case durationDays > vipThresholdDays:
		return domain.TierVIP
	case durationDays > premiumThresholdDays:
		return domain.TierPremium
	default:
		return domain.TierBasic
	}
}

// DefaultPlan labels a duration when the admin gives no plan name.
func DefaultPlan(d domain.Duration) string {
	switch d.Months {
	case 0:
	case 1:
		return "Monthly"
	case 3:
		return "Quarterly"
	case 6:
		return "Semiannual"
	case 12:
		return "Yearly"
	default:
		return fmt.Sprintf("%d months", d.Months)
	}
	switch d.Days {
	case 30:
		return "Monthly"
	case 365:
		return "Yearly"
	default:
		return fmt.Sprintf("%d days", d.Days)
	}
}

// DefaultPrice is the list price of a day-based activation.
func DefaultPrice(days int) float64 {
	switch days {
	case 365:
		return 1200
	case 90:
		return 350
	default:
		return 120
	}
}
