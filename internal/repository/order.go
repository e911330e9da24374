package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/tably/orders-api/internal/model"
)

// OrderFilter narrows list queries. CustomerName is a case-insensitive
// substring match; Start/End bound created_at inclusively when set.
type OrderFilter struct {
	CustomerName string
	Start        *time.Time
	End          *time.Time
}

type OrderRepository interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	InsertHeaderTx(ctx context.Context, tx pgx.Tx, order *model.Order) error
	InsertLineTx(ctx context.Context, tx pgx.Tx, line *model.OrderLine) error
	UpdateTotalTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (decimal.Decimal, error)
	GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error)
	List(ctx context.Context, userID uuid.UUID, filter OrderFilter, limit, offset int) ([]model.Order, int, error)
}

type pgOrderRepo struct{ pool *pgxpool.Pool }

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &pgOrderRepo{pool: pool}
}

func (r *pgOrderRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

func (r *pgOrderRepo) InsertHeaderTx(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	order.ID = uuid.New()
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, customer_name, total_price, created_at)
		 VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		order.ID, order.UserID, order.CustomerName, order.TotalPrice,
	).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *pgOrderRepo) InsertLineTx(ctx context.Context, tx pgx.Tx, line *model.OrderLine) error {
	line.ID = uuid.New()
	err := tx.QueryRow(ctx,
		`INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING created_at`,
		line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice,
	).Scan(&line.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order line: %w", err)
	}
	return nil
}

// UpdateTotalTx recomputes the order total from its lines in one statement so
// the stored total can never drift from the line items it was derived from.
func (r *pgOrderRepo) UpdateTotalTx(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx,
		`UPDATE orders SET total_price = (
			SELECT COALESCE(SUM(quantity * unit_price), 0)
			FROM order_lines WHERE order_id = $1
		 ) WHERE id = $1 RETURNING total_price`, orderID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("update order total: %w", err)
	}
	return total, nil
}

// GetByID is ownership-scoped: an order belonging to another user scans as no
// rows, indistinguishable from a nonexistent one.
func (r *pgOrderRepo) GetByID(ctx context.Context, orderID, userID uuid.UUID) (*model.Order, error) {
	order := &model.Order{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, customer_name, total_price, created_at
		 FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID,
	).Scan(&order.ID, &order.UserID, &order.CustomerName, &order.TotalPrice, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.linesForOrders(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]
	return order, nil
}

func (r *pgOrderRepo) List(ctx context.Context, userID uuid.UUID, filter OrderFilter, limit, offset int) ([]model.Order, int, error) {
	where := `WHERE user_id = $1
		AND ($2 = '' OR customer_name ILIKE '%' || $2 || '%')
		AND ($3::timestamptz IS NULL OR created_at >= $3)
		AND ($4::timestamptz IS NULL OR created_at <= $4)`
	args := []any{userID, filter.CustomerName, filter.Start, filter.End}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, customer_name, total_price, created_at FROM orders `+where+
			` ORDER BY created_at DESC, seq DESC LIMIT $5 OFFSET $6`,
		append(args, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	var ids []uuid.UUID
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.TotalPrice, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	if len(ids) > 0 {
		lines, err := r.linesForOrders(ctx, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range orders {
			orders[i].Lines = lines[orders[i].ID]
		}
	}
	return orders, total, nil
}

// linesForOrders fetches the lines for a batch of orders in one query, joined
// with their product names, preserving insertion order within each order.
func (r *pgOrderRepo) linesForOrders(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]model.OrderLine, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ol.id, ol.order_id, ol.product_id, p.name, ol.quantity, ol.unit_price, ol.created_at
		 FROM order_lines ol
		 JOIN products p ON p.id = ol.product_id
		 WHERE ol.order_id = ANY($1)
		 ORDER BY ol.seq`, orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()

	lines := make(map[uuid.UUID][]model.OrderLine)
	for rows.Next() {
		var l model.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines[l.OrderID] = append(lines[l.OrderID], l)
	}
	return lines, rows.Err()
}
