package repository

import (
	"context"

	"tableride/internal/domain"
)

// CouponRepository defines the persistence operations for coupons.
// Coupons are read-only within a transition; IncrementUsage is invoked by
// callers outside the executor's lock domain, after finalization commits.
type CouponRepository interface {
	// Create persists a new coupon.
	Create(ctx context.Context, coupon *domain.Coupon) error

	// GetByID retrieves a coupon snapshot by ID.
	GetByID(ctx context.Context, id string) (*domain.Coupon, error)

	// GetByCode retrieves a coupon snapshot by its public code.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)

	// IncrementUsage atomically bumps the usage counter.
	IncrementUsage(ctx context.Context, id string) error
}
