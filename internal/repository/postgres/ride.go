package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"tableride/internal/domain"
	"tableride/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, rider_id, driver_id, pickup_lat, pickup_lng, dropoff_lat, dropoff_lng, surge_multiplier, estimated_fare, final_fare, status, created_at, updated_at, finalized_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	surge := ride.SurgeMultiplier
	if surge < 1.0 {
		surge = 1.0
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.PickupLat,
		ride.PickupLng,
		ride.DropoffLat,
		ride.DropoffLng,
		surge,
		ride.EstimatedFare,
		nullDecimal(ride.FinalFare),
		ride.Status,
		ride.CreatedAt,
		ride.UpdatedAt,
		nullTime(ride.FinalizedAt),
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate retrieves a ride under an exclusive row lock. Blocks
// until the lock is available or the transaction's lock_timeout elapses.
func (r *RideRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *RideRepository) getOne(ctx context.Context, query, id string) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID sql.NullString
	var finalFare decimal.NullDecimal
	var finalizedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.PickupLat,
		&ride.PickupLng,
		&ride.DropoffLat,
		&ride.DropoffLng,
		&ride.SurgeMultiplier,
		&ride.EstimatedFare,
		&finalFare,
		&ride.Status,
		&ride.CreatedAt,
		&ride.UpdatedAt,
		&finalizedAt,
	)
	if err != nil {
		return nil, mapRowError(err)
	}

	if driverID.Valid {
		ride.DriverID = driverID.String
	}
	if finalFare.Valid {
		ride.FinalFare = finalFare.Decimal
	}
	if finalizedAt.Valid {
		ride.FinalizedAt = finalizedAt.Time
	}

	return &ride, nil
}

// Update rewrites the ride row.
func (r *RideRepository) Update(ctx context.Context, ride *domain.Ride) error {
	query := `
		UPDATE rides
		SET driver_id = $1, surge_multiplier = $2, estimated_fare = $3, final_fare = $4, status = $5, updated_at = $6, finalized_at = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(ride.DriverID),
		ride.SurgeMultiplier,
		ride.EstimatedFare,
		nullDecimal(ride.FinalFare),
		ride.Status,
		ride.UpdatedAt,
		nullTime(ride.FinalizedAt),
		ride.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListByStatuses retrieves rides in any of the given states.
func (r *RideRepository) ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Ride, error) {
	direction := "DESC"
	if oldestFirst {
		direction = "ASC"
	}

	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = ANY($1) ORDER BY created_at ` + direction + ` LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		var ride domain.Ride
		var driverID sql.NullString
		var finalFare decimal.NullDecimal
		var finalizedAt sql.NullTime
		if err := rows.Scan(
			&ride.ID,
			&ride.RiderID,
			&driverID,
			&ride.PickupLat,
			&ride.PickupLng,
			&ride.DropoffLat,
			&ride.DropoffLng,
			&ride.SurgeMultiplier,
			&ride.EstimatedFare,
			&finalFare,
			&ride.Status,
			&ride.CreatedAt,
			&ride.UpdatedAt,
			&finalizedAt,
		); err != nil {
			return nil, err
		}
		if driverID.Valid {
			ride.DriverID = driverID.String
		}
		if finalFare.Valid {
			ride.FinalFare = finalFare.Decimal
		}
		if finalizedAt.Valid {
			ride.FinalizedAt = finalizedAt.Time
		}
		rides = append(rides, &ride)
	}
	return rides, rows.Err()
}

// nullDecimal converts an optional decimal to its SQL representation.
func nullDecimal(d decimal.Decimal) decimal.NullDecimal {
	if d.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
