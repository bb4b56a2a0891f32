package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"tableride/internal/domain"
	"tableride/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// NewOrderRepositoryWithTx creates an order repository using a transaction.
func NewOrderRepositoryWithTx(tx *sql.Tx) *OrderRepository {
	return &OrderRepository{q: tx}
}

const orderColumns = `id, order_number, customer_id, coupon_id, subtotal, discount_amount, total, status, created_at, updated_at, finalized_at`

// Create persists a new order and its line items.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.Number,
		order.CustomerID,
		nullString(order.CouponID),
		order.Subtotal,
		order.Discount,
		order.Total,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
		nullTime(order.FinalizedAt),
	)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, name, unit_price, quantity)
		VALUES ($1, $2, $3, $4)
	`
	for _, item := range order.Items {
		if _, err := r.q.ExecContext(ctx, itemQuery, order.ID, item.Name, item.UnitPrice, item.Quantity); err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves an order with its line items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate retrieves an order under an exclusive row lock. Blocks
// until the lock is available or the transaction's lock_timeout elapses.
func (r *OrderRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *OrderRepository) getOne(ctx context.Context, query, id string) (*domain.Order, error) {
	var order domain.Order
	var couponID sql.NullString
	var finalizedAt sql.NullTime

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Number,
		&order.CustomerID,
		&couponID,
		&order.Subtotal,
		&order.Discount,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&finalizedAt,
	)
	if err != nil {
		return nil, mapRowError(err)
	}

	if couponID.Valid {
		order.CouponID = couponID.String
	}
	if finalizedAt.Valid {
		order.FinalizedAt = finalizedAt.Time
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.LineItem, error) {
	query := `
		SELECT name, unit_price, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id
	`

	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.LineItem
	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.Name, &item.UnitPrice, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Update rewrites the order row. Line items are immutable and never updated.
func (r *OrderRepository) Update(ctx context.Context, order *domain.Order) error {
	query := `
		UPDATE orders
		SET coupon_id = $1, subtotal = $2, discount_amount = $3, total = $4, status = $5, updated_at = $6, finalized_at = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		nullString(order.CouponID),
		order.Subtotal,
		order.Discount,
		order.Total,
		order.Status,
		order.UpdatedAt,
		nullTime(order.FinalizedAt),
		order.ID,
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

// ListByStatuses retrieves orders in any of the given states. Line items are
// not loaded; list consumers only need summary fields.
func (r *OrderRepository) ListByStatuses(ctx context.Context, statuses []domain.Status, oldestFirst bool) ([]*domain.Order, error) {
	direction := "DESC"
	if oldestFirst {
		direction = "ASC"
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE status = ANY($1) ORDER BY created_at ` + direction + ` LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query, pq.Array(statusStrings(statuses)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var order domain.Order
		var couponID sql.NullString
		var finalizedAt sql.NullTime
		if err := rows.Scan(
			&order.ID,
			&order.Number,
			&order.CustomerID,
			&couponID,
			&order.Subtotal,
			&order.Discount,
			&order.Total,
			&order.Status,
			&order.CreatedAt,
			&order.UpdatedAt,
			&finalizedAt,
		); err != nil {
			return nil, err
		}
		if couponID.Valid {
			order.CouponID = couponID.String
		}
		if finalizedAt.Valid {
			order.FinalizedAt = finalizedAt.Time
		}
		orders = append(orders, &order)
	}
	return orders, rows.Err()
}

// nullString converts an optional string to its SQL representation.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nullTime converts an optional timestamp to its SQL representation.
func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
