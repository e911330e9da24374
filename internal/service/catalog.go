package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/model"
	"github.com/tably/orders-api/internal/repository"
)

// CatalogService resolves product references by name on behalf of the order
// workflow. It is the only writer of product rows.
type CatalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

// ResolveOrCreate returns the product with the given exact name, creating it
// with proposedPrice when absent. An existing product's stored price is
// authoritative; proposedPrice is ignored for it. Two concurrent resolutions
// of the same unseen name produce exactly one row: the losing insert hits the
// unique constraint and falls back to fetching the winner.
func (s *CatalogService) ResolveOrCreate(ctx context.Context, tx pgx.Tx, name string, proposedPrice decimal.Decimal) (*model.Product, error) {
	var details []string
	if name == "" {
		details = append(details, "name: must not be empty")
	}
	if !proposedPrice.IsPositive() {
		details = append(details, "price: must be greater than 0")
	}
	if len(details) > 0 {
		return nil, apperr.Validation(details...)
	}

	product, err := s.productRepo.GetByNameTx(ctx, tx, name)
	if err != nil {
		return nil, apperr.Persistence("resolve product", err)
	}
	if product != nil {
		return product, nil
	}

	product = &model.Product{Name: name, Price: proposedPrice}
	err = s.productRepo.CreateTx(ctx, tx, product)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, apperr.ErrConflict) {
		return nil, apperr.Persistence("create product", err)
	}

	// Lost the creation race; the winner's row is the product now.
	product, err = s.productRepo.GetByNameTx(ctx, tx, name)
	if err != nil {
		return nil, apperr.Persistence("refetch product", err)
	}
	if product == nil {
		return nil, apperr.Persistence("refetch product", fmt.Errorf("product %q missing after conflict", name))
	}
	return product, nil
}
