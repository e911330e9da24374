package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Auth / Users ---

type CreateUserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

// --- Pagination ---

type PageParams struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=10"`
}

type Pagination struct {
	Total    int  `json:"total"`
	Pages    int  `json:"pages"`
	Page     int  `json:"page"`
	PerPage  int  `json:"per_page"`
	HasNext  bool `json:"has_next"`
	HasPrev  bool `json:"has_prev"`
	NextPage *int `json:"next_page"`
	PrevPage *int `json:"prev_page"`
}

// --- Orders ---

type OrderLineRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Quantity int             `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	CustomerName string             `json:"customer_name" binding:"required"`
	Products     []OrderLineRequest `json:"products" binding:"required"`
}

type ListOrdersRequest struct {
	CustomerName string `form:"customer_name"`
	StartDate    string `form:"start_date"`
	EndDate      string `form:"end_date"`
	Page         int    `form:"page,default=1"`
	PerPage      int    `form:"per_page,default=10"`
}

// OrderLineResponse exposes the line under its product: id is the product id,
// matching the wire shape consumed by existing clients.
type OrderLineResponse struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	UserID       uuid.UUID           `json:"user_id"`
	CustomerName string              `json:"customer_name"`
	TotalPrice   decimal.Decimal     `json:"total_price"`
	Products     []OrderLineResponse `json:"products"`
	CreatedAt    time.Time           `json:"created_at"`
}

type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	Pagination Pagination      `json:"pagination"`
}

// --- Reports ---

type ReportRequest struct {
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"page_size,default=10"`
}

type ProductSalesResponse struct {
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

type SalesReport struct {
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
	TotalPages   int                    `json:"total_pages"`
	TotalRecords int                    `json:"total_records"`
	Products     []ProductSalesResponse `json:"products"`
}

type SalesReportResponse struct {
	Report SalesReport `json:"report"`
}
