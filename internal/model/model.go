package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
}

// Product is a catalog item. Name is unique (case-sensitive); once a row
// exists its stored price is authoritative.
type Product struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Order is a purchase event together with its line items. TotalPrice is
// derived from the lines, never taken from caller input.
type Order struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CustomerName string
	TotalPrice   decimal.Decimal
	Lines        []OrderLine
	CreatedAt    time.Time
}

// OrderLine snapshots the unit price in effect at order time, independent of
// later orders citing a different price for the same product.
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	CreatedAt   time.Time
}

// ProductSales is one aggregated row of the product sales report.
type ProductSales struct {
	ProductName   string
	TotalQuantity int64
	TotalPrice    decimal.Decimal
}

type OrderCreatedMessage struct {
	OrderID uuid.UUID `json:"order_id"`
	UserID  uuid.UUID `json:"user_id"`
}
