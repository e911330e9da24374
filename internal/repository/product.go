package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/model"
)

type ProductRepository interface {
	GetByNameTx(ctx context.Context, tx pgx.Tx, name string) (*model.Product, error)
	CreateTx(ctx context.Context, tx pgx.Tx, product *model.Product) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

// GetByNameTx looks a product up by exact name. Returns nil when absent.
func (r *pgProductRepo) GetByNameTx(ctx context.Context, tx pgx.Tx, name string) (*model.Product, error) {
	p := &model.Product{}
	err := tx.QueryRow(ctx,
		`SELECT id, name, price, created_at FROM products WHERE name = $1`, name,
	).Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name: %w", err)
	}
	return p, nil
}

// CreateTx inserts a product. A concurrent insert of the same name loses the
// unique constraint race and gets ErrConflict; the caller re-fetches instead
// of failing the order.
func (r *pgProductRepo) CreateTx(ctx context.Context, tx pgx.Tx, product *model.Product) error {
	product.ID = uuid.New()
	err := tx.QueryRow(ctx,
		`INSERT INTO products (id, name, price, created_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (name) DO NOTHING
		 RETURNING created_at`,
		product.ID, product.Name, product.Price,
	).Scan(&product.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("product %q already exists: %w", product.Name, apperr.ErrConflict)
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}
