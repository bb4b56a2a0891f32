package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"tableride/internal/domain"
	"tableride/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// lockNotAvailable is the Postgres error code raised when lock_timeout
// expires while waiting on a row lock.
const lockNotAvailable = "55P03"

// mapRowError translates driver errors on single-row reads into
// repository-level errors.
func mapRowError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == lockNotAvailable {
		return repository.ErrLockTimeout
	}
	return err
}

// statusStrings converts domain statuses for use with pq.Array.
func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
