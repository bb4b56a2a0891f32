package repository

import (
	"context"

	"tableride/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order together with its line items.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its line items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByIDForUpdate retrieves an order under an exclusive row lock.
	// Must be called inside a Store transaction; blocks until the lock is
	// available or the transaction's lock timeout elapses (ErrLockTimeout).
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)

	// Update rewrites the order row. Line items are immutable and not
	// touched.
	Update(ctx context.Context, order *domain.Order) error

	// ListByStatuses retrieves orders in any of the given states.
	// oldestFirst selects ascending creation order (fair allocation);
	// otherwise newest first.
	ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Order, error)
}
