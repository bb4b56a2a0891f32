package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tableride/internal/repository"
)

// Store implements repository.Store on PostgreSQL.
type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

// NewStore creates a new PostgreSQL store. lockTimeout is the default bound
// on row lock waits; zero means repository.DefaultLockTimeout.
func NewStore(db *sql.DB, lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = repository.DefaultLockTimeout
	}
	return &Store{db: db, lockTimeout: lockTimeout}
}

var _ repository.Store = (*Store)(nil)

// Transact runs fn inside a single transaction with a bounded lock wait.
// Row locks taken through the transaction-scoped repositories respect the
// configured lock_timeout; expiry surfaces as repository.ErrLockTimeout.
func (s *Store) Transact(ctx context.Context, opts repository.TxOptions, fn func(tx repository.Tx) error) error {
	lockTimeout := opts.LockTimeout
	if lockTimeout <= 0 {
		lockTimeout = s.lockTimeout
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// SET LOCAL scopes the timeout to this transaction only.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", lockTimeout.Milliseconds())); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := fn(&storeTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// storeTx hands out transaction-scoped repositories.
type storeTx struct {
	tx *sql.Tx
}

func (t *storeTx) Orders() repository.OrderRepository   { return NewOrderRepositoryWithTx(t.tx) }
func (t *storeTx) Rides() repository.RideRepository     { return NewRideRepositoryWithTx(t.tx) }
func (t *storeTx) Coupons() repository.CouponRepository { return NewCouponRepositoryWithTx(t.tx) }
