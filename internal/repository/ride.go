package repository

import (
	"context"

	"tableride/internal/domain"
)

// RideRepository defines the persistence operations for rides.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByIDForUpdate retrieves a ride under an exclusive row lock.
	// Must be called inside a Store transaction; blocks until the lock is
	// available or the transaction's lock timeout elapses (ErrLockTimeout).
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error)

	// Update rewrites the ride row.
	Update(ctx context.Context, ride *domain.Ride) error

	// ListByStatuses retrieves rides in any of the given states.
	ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Ride, error)
}
