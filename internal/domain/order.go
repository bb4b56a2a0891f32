package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is a single priced position on an order.
// Immutable once the order reaches a terminal state.
type LineItem struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Order represents a customer order in the system.
type Order struct {
	ID          string
	Number      string // user-facing reference, e.g. "ORD-A7X9K2M5"
	CustomerID  string
	Items       []LineItem
	CouponID    string // empty when no coupon is attached
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FinalizedAt time.Time // zero until the order reaches a terminal state
}
