package postgres

import (
	"context"
	"database/sql"

	"tableride/internal/domain"
	"tableride/internal/repository"
)

// CouponRepository is a PostgreSQL implementation of repository.CouponRepository.
type CouponRepository struct {
	q Querier
}

// NewCouponRepository creates a new PostgreSQL coupon repository.
func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{q: db}
}

// NewCouponRepositoryWithTx creates a coupon repository using a transaction.
func NewCouponRepositoryWithTx(tx *sql.Tx) *CouponRepository {
	return &CouponRepository{q: tx}
}

const couponColumns = `id, code, discount_percentage, is_active, valid_from, valid_until, usage_count, max_usage`

// Create persists a new coupon.
func (r *CouponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `
		INSERT INTO coupons (` + couponColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var maxUsage sql.NullInt64
	if coupon.MaxUsage != nil {
		maxUsage = sql.NullInt64{Int64: int64(*coupon.MaxUsage), Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		coupon.ID,
		coupon.Code,
		coupon.DiscountPercentage,
		coupon.IsActive,
		coupon.ValidFrom,
		coupon.ValidUntil,
		coupon.UsageCount,
		maxUsage,
	)

	return err
}

// GetByID retrieves a coupon snapshot by ID.
func (r *CouponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByCode retrieves a coupon snapshot by its public code.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`
	return r.getOne(ctx, query, code)
}

func (r *CouponRepository) getOne(ctx context.Context, query, key string) (*domain.Coupon, error) {
	var coupon domain.Coupon
	var maxUsage sql.NullInt64

	err := r.q.QueryRowContext(ctx, query, key).Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountPercentage,
		&coupon.IsActive,
		&coupon.ValidFrom,
		&coupon.ValidUntil,
		&coupon.UsageCount,
		&maxUsage,
	)
	if err != nil {
		return nil, mapRowError(err)
	}

	if maxUsage.Valid {
		v := int(maxUsage.Int64)
		coupon.MaxUsage = &v
	}

	return &coupon, nil
}

// IncrementUsage atomically bumps the usage counter. The counter update is a
// single statement, so it needs no row lock from the caller.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `UPDATE coupons SET usage_count = usage_count + 1 WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
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
