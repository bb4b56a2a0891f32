package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coupon is a percentage discount instrument. Coupons are shared, read-mostly
// reference data: pricing never mutates them, and usage accounting is a
// separate side effect triggered on order finalization.
type Coupon struct {
	ID                 string
	Code               string
	DiscountPercentage decimal.Decimal // 0-100
	IsActive           bool
	ValidFrom          time.Time // inclusive, date granular
	ValidUntil         time.Time // inclusive, date granular
	UsageCount         int
	MaxUsage           *int // nil = unlimited
}

// IsUsable reports whether the coupon may be applied on the given date.
// Nil-safe: an absent coupon is never usable. The caller supplies the
// reference time, so the check needs no clock of its own.
func (c *Coupon) IsUsable(asOf time.Time) bool {
	if c == nil {
		return false
	}
	if !c.IsActive {
		return false
	}

	day := dateOf(asOf)
	if day.Before(dateOf(c.ValidFrom)) || day.After(dateOf(c.ValidUntil)) {
		return false
	}

	if c.MaxUsage != nil && c.UsageCount >= *c.MaxUsage {
		return false
	}

	return true
}

// dateOf truncates t to its calendar date, keeping the comparison
// day-granular regardless of the time component.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
