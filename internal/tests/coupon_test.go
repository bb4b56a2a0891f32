package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/logger"
	"tableride/internal/service"
)

// ──────────────────────────────────────────────
// 3. COUPON VALIDITY AND MANAGEMENT
// ──────────────────────────────────────────────

func TestCoupon_IsUsable_DateBoundariesInclusive(t *testing.T) {
	t.Parallel()

	coupon := &domain.Coupon{
		ID:                 "c1",
		IsActive:           true,
		DiscountPercentage: decimal.NewFromInt(10),
		ValidFrom:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:         time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	cases := []struct {
		name   string
		asOf   time.Time
		usable bool
	}{
		{"day before window", time.Date(2025, 5, 31, 23, 59, 0, 0, time.UTC), false},
		{"first day", time.Date(2025, 6, 1, 0, 0, 1, 0, time.UTC), true},
		{"mid window", time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), true},
		{"last day late evening", time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC), true},
		{"day after window", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := coupon.IsUsable(tc.asOf); got != tc.usable {
				t.Errorf("expected usable=%v at %s, got %v", tc.usable, tc.asOf, got)
			}
		})
	}
}

func TestCoupon_IsUsable_InactiveAndExhausted(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	base := domain.Coupon{
		IsActive:           true,
		DiscountPercentage: decimal.NewFromInt(10),
		ValidFrom:          asOf.AddDate(0, 0, -1),
		ValidUntil:         asOf.AddDate(0, 0, 1),
	}

	inactive := base
	inactive.IsActive = false
	if inactive.IsUsable(asOf) {
		t.Error("inactive coupon should not be usable")
	}

	maxUsage := 3
	exhausted := base
	exhausted.MaxUsage = &maxUsage
	exhausted.UsageCount = 3
	if exhausted.IsUsable(asOf) {
		t.Error("exhausted coupon should not be usable")
	}

	underCap := base
	underCap.MaxUsage = &maxUsage
	underCap.UsageCount = 2
	if !underCap.IsUsable(asOf) {
		t.Error("coupon under its usage cap should be usable")
	}

	var nilCoupon *domain.Coupon
	if nilCoupon.IsUsable(asOf) {
		t.Error("nil coupon should not be usable")
	}
}

func TestCouponService_CreateCoupon(t *testing.T) {
	t.Parallel()

	couponRepo := NewMockCouponRepository()
	svc := service.NewCouponService(couponRepo, logger.Nop())

	coupon, err := svc.CreateCoupon(context.Background(), service.CreateCouponRequest{
		DiscountPercentage: decimal.NewFromInt(15),
		ValidFrom:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		ValidUntil:         time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !coupon.IsActive {
		t.Error("new coupon should be active")
	}
	if len(coupon.Code) != 10 {
		t.Errorf("expected generated 10-character code, got %q", coupon.Code)
	}
	if couponRepo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", couponRepo.CreateCallCount)
	}
}

func TestCouponService_CreateCoupon_Validation(t *testing.T) {
	t.Parallel()

	svc := service.NewCouponService(NewMockCouponRepository(), logger.Nop())
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateCoupon(context.Background(), service.CreateCouponRequest{
		DiscountPercentage: decimal.NewFromInt(120),
		ValidFrom:          from,
		ValidUntil:         until,
	})
	if !errors.Is(err, service.ErrInvalidCouponPercentage) {
		t.Errorf("expected ErrInvalidCouponPercentage, got %v", err)
	}

	_, err = svc.CreateCoupon(context.Background(), service.CreateCouponRequest{
		DiscountPercentage: decimal.NewFromInt(10),
		ValidFrom:          until,
		ValidUntil:         from,
	})
	if !errors.Is(err, service.ErrInvalidCouponRange) {
		t.Errorf("expected ErrInvalidCouponRange, got %v", err)
	}
}

func TestCouponService_RecordRedemption(t *testing.T) {
	t.Parallel()

	couponRepo := NewMockCouponRepository()
	couponRepo.AddCoupon(&domain.Coupon{ID: "c1", Code: "SAVE", IsActive: true})
	svc := service.NewCouponService(couponRepo, logger.Nop())

	if err := svc.RecordRedemption(context.Background(), "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := couponRepo.GetCoupon("c1").UsageCount; got != 1 {
		t.Errorf("expected usage count 1, got %d", got)
	}

	// Empty ID is a no-op, not an error.
	if err := svc.RecordRedemption(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if couponRepo.IncrementUsageCallCount != 1 {
		t.Errorf("expected 1 increment call, got %d", couponRepo.IncrementUsageCallCount)
	}
}
