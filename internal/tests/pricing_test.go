package tests

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/pricing"
)

// ──────────────────────────────────────────────
// 2. PRICING ENGINE
// ──────────────────────────────────────────────

var pricingNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func usableCoupon(pct string) *domain.Coupon {
	return &domain.Coupon{
		ID:                 "coupon-1",
		Code:               "SAVE",
		DiscountPercentage: decimal.RequireFromString(pct),
		IsActive:           true,
		ValidFrom:          pricingNow.AddDate(0, 0, -7),
		ValidUntil:         pricingNow.AddDate(0, 0, 7),
	}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, got)
	}
}

func TestComputeTotals_NoCoupon(t *testing.T) {
	t.Parallel()

	items := []domain.LineItem{
		{Name: "Burger", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2},
		{Name: "Fries", UnitPrice: decimal.RequireFromString("5.99"), Quantity: 1},
	}

	totals, err := pricing.ComputeTotals(items, nil, pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDecimal(t, "subtotal", totals.Subtotal, "25.99")
	assertDecimal(t, "discount", totals.Discount, "0")
	assertDecimal(t, "total", totals.Total, "25.99")
}

func TestComputeTotals_PercentageDiscount(t *testing.T) {
	t.Parallel()

	items := []domain.LineItem{
		{Name: "Pizza", UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1},
	}

	totals, err := pricing.ComputeTotals(items, usableCoupon("10"), pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDecimal(t, "subtotal", totals.Subtotal, "25.00")
	assertDecimal(t, "discount", totals.Discount, "2.50")
	assertDecimal(t, "total", totals.Total, "22.50")
}

func TestComputeTotals_ExpiredCouponContributesNothing(t *testing.T) {
	t.Parallel()

	coupon := usableCoupon("10")
	coupon.ValidUntil = pricingNow.AddDate(0, 0, -1)

	items := []domain.LineItem{
		{Name: "Pizza", UnitPrice: decimal.RequireFromString("25.00"), Quantity: 1},
	}

	totals, err := pricing.ComputeTotals(items, coupon, pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDecimal(t, "discount", totals.Discount, "0")
	assertDecimal(t, "total", totals.Total, "25.00")
}

func TestComputeTotals_DiscountRoundsHalfUp(t *testing.T) {
	t.Parallel()

	items := []domain.LineItem{
		{Name: "Item", UnitPrice: decimal.RequireFromString("9.99"), Quantity: 1},
	}

	// 9.99 x 15% = 1.4985 -> 1.50
	totals, err := pricing.ComputeTotals(items, usableCoupon("15"), pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "discount", totals.Discount, "1.50")
	assertDecimal(t, "total", totals.Total, "8.49")
}

func TestComputeTotals_FullDiscountClampsAtSubtotal(t *testing.T) {
	t.Parallel()

	items := []domain.LineItem{
		{Name: "Item", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 1},
	}

	totals, err := pricing.ComputeTotals(items, usableCoupon("100"), pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertDecimal(t, "discount", totals.Discount, "10.00")
	assertDecimal(t, "total", totals.Total, "0.00")
	if totals.Total.IsNegative() {
		t.Error("total must never be negative")
	}
}

func TestComputeTotals_ZeroQuantityItem(t *testing.T) {
	t.Parallel()

	items := []domain.LineItem{
		{Name: "Item", UnitPrice: decimal.RequireFromString("10.00"), Quantity: 0},
	}

	totals, err := pricing.ComputeTotals(items, nil, pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "subtotal", totals.Subtotal, "0")
}

func TestComputeTotals_NegativeValuesRejected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		items []domain.LineItem
	}{
		{"negative price", []domain.LineItem{{Name: "Item", UnitPrice: decimal.RequireFromString("-1.00"), Quantity: 1}}},
		{"negative quantity", []domain.LineItem{{Name: "Item", UnitPrice: decimal.RequireFromString("1.00"), Quantity: -1}}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := pricing.ComputeTotals(tc.items, nil, pricingNow)
			if !errors.Is(err, pricing.ErrNegativeLineItemValue) {
				t.Errorf("expected ErrNegativeLineItemValue, got %v", err)
			}
		})
	}
}

func TestComputeTotals_ExhaustedCouponContributesNothing(t *testing.T) {
	t.Parallel()

	maxUsage := 5
	coupon := usableCoupon("20")
	coupon.MaxUsage = &maxUsage
	coupon.UsageCount = 5

	items := []domain.LineItem{
		{Name: "Item", UnitPrice: decimal.RequireFromString("50.00"), Quantity: 1},
	}

	totals, err := pricing.ComputeTotals(items, coupon, pricingNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertDecimal(t, "discount", totals.Discount, "0")
}
