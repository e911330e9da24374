package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/orders-api/internal/model"
)

type ReportRepository interface {
	ProductSales(ctx context.Context, userID uuid.UUID, start, end time.Time, limit, offset int) ([]model.ProductSales, int, error)
}

type pgReportRepo struct{ pool *pgxpool.Pool }

func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &pgReportRepo{pool: pool}
}

// ProductSales aggregates the user's order lines in [start, end] by product
// name. Pagination applies to the grouped rows, not the underlying lines.
func (r *pgReportRepo) ProductSales(ctx context.Context, userID uuid.UUID, start, end time.Time, limit, offset int) ([]model.ProductSales, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM (
			SELECT 1
			FROM order_lines ol
			JOIN orders o ON o.id = ol.order_id
			JOIN products p ON p.id = ol.product_id
			WHERE o.user_id = $1 AND o.created_at >= $2 AND o.created_at <= $3
			GROUP BY p.name
		 ) grouped`, userID, start, end,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count report rows: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT p.name, SUM(ol.quantity)::bigint, SUM(ol.quantity * ol.unit_price)
		 FROM order_lines ol
		 JOIN orders o ON o.id = ol.order_id
		 JOIN products p ON p.id = ol.product_id
		 WHERE o.user_id = $1 AND o.created_at >= $2 AND o.created_at <= $3
		 GROUP BY p.name
		 ORDER BY 2 DESC, p.name
		 LIMIT $4 OFFSET $5`, userID, start, end, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("product sales report: %w", err)
	}
	defer rows.Close()

	var sales []model.ProductSales
	for rows.Next() {
		var s model.ProductSales
		if err := rows.Scan(&s.ProductName, &s.TotalQuantity, &s.TotalPrice); err != nil {
			return nil, 0, fmt.Errorf("scan report row: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, total, rows.Err()
}
