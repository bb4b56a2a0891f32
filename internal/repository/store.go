package repository

import (
	"context"
	"time"
)

// DefaultLockTimeout bounds how long a transition waits for a contended row.
const DefaultLockTimeout = 5 * time.Second

// TxOptions configures a single transaction.
type TxOptions struct {
	// LockTimeout bounds row lock acquisition within the transaction.
	// Zero means DefaultLockTimeout.
	LockTimeout time.Duration
}

// Tx exposes transaction-scoped repositories. Everything read or written
// through it happens inside one storage transaction.
type Tx interface {
	Orders() OrderRepository
	Rides() RideRepository
	Coupons() CouponRepository
}

// Store is the transactional capability the transition executor runs on:
// begin, lock-and-read, write-on-commit. fn returning an error rolls the
// transaction back; otherwise it commits. Any storage engine with row-level
// exclusive locking can implement it.
type Store interface {
	Transact(ctx context.Context, opts TxOptions, fn func(tx Tx) error) error
}
