package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/idgen"
	"tableride/internal/logger"
	"tableride/internal/repository"
)

// CouponService manages discount coupons. Usage accounting lives here, not
// in the pricing engine: recomputing totals for display must never burn a
// usage, so redemption is recorded separately once an order finalizes.
type CouponService struct {
	couponRepo repository.CouponRepository
	log        logger.Logger
}

// NewCouponService creates a new CouponService.
func NewCouponService(couponRepo repository.CouponRepository, log logger.Logger) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		log:        log,
	}
}

// CreateCouponRequest contains the parameters for creating a coupon.
type CreateCouponRequest struct {
	Code               string // optional; generated when empty
	DiscountPercentage decimal.Decimal
	ValidFrom          time.Time
	ValidUntil         time.Time
	MaxUsage           *int // nil = unlimited
}

// CreateCoupon creates an active coupon.
func (s *CouponService) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*domain.Coupon, error) {
	if req.DiscountPercentage.IsNegative() || req.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidCouponPercentage
	}
	if req.ValidUntil.Before(req.ValidFrom) {
		return nil, ErrInvalidCouponRange
	}

	code := req.Code
	if code == "" {
		code = idgen.CouponCode()
	}

	coupon := &domain.Coupon{
		ID:                 uuid.New().String(),
		Code:               code,
		DiscountPercentage: req.DiscountPercentage,
		IsActive:           true,
		ValidFrom:          req.ValidFrom,
		ValidUntil:         req.ValidUntil,
		MaxUsage:           req.MaxUsage,
	}

	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.log.Info("coupon created",
		logger.String("coupon_id", coupon.ID),
		logger.String("code", coupon.Code),
	)

	return coupon, nil
}

// GetByCode retrieves a coupon snapshot by its public code.
func (s *CouponService) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	return s.couponRepo.GetByCode(ctx, code)
}

// RecordRedemption bumps the coupon's usage counter. Callers invoke it once
// per order completion, after the transition has committed; it deliberately
// stays outside the transition's lock domain.
func (s *CouponService) RecordRedemption(ctx context.Context, couponID string) error {
	if couponID == "" {
		return nil
	}
	return s.couponRepo.IncrementUsage(ctx, couponID)
}
