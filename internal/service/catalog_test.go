package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/model"
)

type mockProductRepo struct {
	byName map[string]*model.Product
	byID   map[uuid.UUID]*model.Product

	// beforeCreate runs just before CreateTx checks the name, simulating a
	// concurrent resolution winning the insert race.
	beforeCreate func()
	createErr    error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		byName: make(map[string]*model.Product),
		byID:   make(map[uuid.UUID]*model.Product),
	}
}

func (m *mockProductRepo) add(name string, price decimal.Decimal) *model.Product {
	p := &model.Product{ID: uuid.New(), Name: name, Price: price, CreatedAt: time.Now()}
	m.byName[name] = p
	m.byID[p.ID] = p
	return p
}

func (m *mockProductRepo) GetByNameTx(_ context.Context, _ pgx.Tx, name string) (*model.Product, error) {
	if p, ok := m.byName[name]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *mockProductRepo) CreateTx(_ context.Context, _ pgx.Tx, product *model.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.beforeCreate != nil {
		m.beforeCreate()
	}
	if _, ok := m.byName[product.Name]; ok {
		return fmt.Errorf("product %q already exists: %w", product.Name, apperr.ErrConflict)
	}
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	cp := *product
	m.byName[product.Name] = &cp
	m.byID[product.ID] = &cp
	return nil
}

func TestCatalogService_ResolveOrCreate_CreatesWhenMissing(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewCatalogService(repo)

	p, err := svc.ResolveOrCreate(context.Background(), nil, "Coffee", decimal.NewFromFloat(3.50))
	require.NoError(t, err)
	assert.Equal(t, "Coffee", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(3.50)))
	assert.Len(t, repo.byName, 1)
}

func TestCatalogService_ResolveOrCreate_ExistingPriceWins(t *testing.T) {
	repo := newMockProductRepo()
	existing := repo.add("Coffee", decimal.NewFromFloat(3.50))
	svc := NewCatalogService(repo)

	p, err := svc.ResolveOrCreate(context.Background(), nil, "Coffee", decimal.NewFromFloat(99.00))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, p.ID)
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(3.50)))
	assert.Len(t, repo.byName, 1, "no duplicate product row")
	assert.True(t, repo.byName["Coffee"].Price.Equal(decimal.NewFromFloat(3.50)), "stored price unchanged")
}

func TestCatalogService_ResolveOrCreate_LostRaceRefetches(t *testing.T) {
	repo := newMockProductRepo()
	var winner *model.Product
	repo.beforeCreate = func() {
		winner = repo.add("Bagel", decimal.NewFromFloat(2.00))
	}
	svc := NewCatalogService(repo)

	p, err := svc.ResolveOrCreate(context.Background(), nil, "Bagel", decimal.NewFromFloat(2.50))
	require.NoError(t, err)
	assert.Equal(t, winner.ID, p.ID)
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(2.00)), "winner's price is authoritative")
	assert.Len(t, repo.byName, 1, "exactly one row after concurrent resolution")
}

func TestCatalogService_ResolveOrCreate_Validation(t *testing.T) {
	svc := NewCatalogService(newMockProductRepo())

	_, err := svc.ResolveOrCreate(context.Background(), nil, "", decimal.NewFromFloat(1.00))
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.ResolveOrCreate(context.Background(), nil, "Coffee", decimal.Zero)
	assert.True(t, apperr.IsValidation(err))

	_, err = svc.ResolveOrCreate(context.Background(), nil, "Coffee", decimal.NewFromFloat(-1))
	assert.True(t, apperr.IsValidation(err))
}

func TestCatalogService_ResolveOrCreate_PersistenceFailure(t *testing.T) {
	repo := newMockProductRepo()
	repo.createErr = fmt.Errorf("connection reset")
	svc := NewCatalogService(repo)

	_, err := svc.ResolveOrCreate(context.Background(), nil, "Coffee", decimal.NewFromFloat(3.50))
	var pe *apperr.PersistenceError
	assert.ErrorAs(t, err, &pe)
}
