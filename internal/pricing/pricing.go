// Package pricing computes order totals. All arithmetic is fixed-point
// decimal; rounding happens exactly once, at the discount step.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tableride/internal/domain"
)

var (
	// ErrNegativeLineItemValue is returned when a line item carries a
	// negative unit price or quantity. The engine fails fast instead of
	// clamping caller mistakes.
	ErrNegativeLineItemValue = errors.New("line item has negative unit price or quantity")
)

var hundred = decimal.NewFromInt(100)

// Totals is the result of a pricing computation.
type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals aggregates line items and applies the coupon discount.
//
// The subtotal accumulates unit_price x quantity in decimal. A coupon that is
// absent or not usable on asOf contributes no discount; a usable coupon
// contributes round-half-up(subtotal x pct / 100, 2), clamped to the subtotal
// so the total can never go negative. Coupon usage accounting is not done
// here - recomputing totals for display must not burn usages.
func ComputeTotals(items []domain.LineItem, coupon *domain.Coupon, asOf time.Time) (Totals, error) {
	subtotal := decimal.Zero
	for _, item := range items {
		if item.UnitPrice.IsNegative() || item.Quantity < 0 {
			return Totals{}, ErrNegativeLineItemValue
		}
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	discount := decimal.Zero
	if coupon.IsUsable(asOf) {
		discount = subtotal.Mul(coupon.DiscountPercentage).Div(hundred).Round(2)
		if discount.GreaterThan(subtotal) {
			discount = subtotal
		}
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    subtotal.Sub(discount),
	}, nil
}
