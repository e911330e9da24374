package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/tably/orders-api/internal/apperr"
	"github.com/tably/orders-api/internal/dto"
	"github.com/tably/orders-api/internal/model"
	"github.com/tably/orders-api/internal/repository"
)

const orderQueueName = "orders.created"

// OrderService assembles new orders and reads existing ones. Order views are
// immutable after creation, so the cache never needs invalidation; cacheTTL
// only bounds memory.
type OrderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	catalog     *CatalogService
	amqpCh      *amqp.Channel
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	catalog *CatalogService,
	amqpCh *amqp.Channel,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		catalog:     catalog,
		amqpCh:      amqpCh,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

// Create runs the whole order-creation workflow in one transaction: re-verify
// the user, insert the header with a zero total, resolve each product and
// insert its line at the resolved price, recompute the total, commit. Any
// failure rolls the whole thing back; a partial order is never visible. The
// response is re-read from committed state, not assembled in memory.
func (s *OrderService) Create(ctx context.Context, userID uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := validateCreateOrder(req); err != nil {
		return nil, err
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, apperr.Persistence("begin order tx", err)
	}
	defer tx.Rollback(ctx)

	exists, err := s.userRepo.ExistsTx(ctx, tx, userID)
	if err != nil {
		return nil, apperr.Persistence("verify user", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %s: %w", userID, apperr.ErrNotFound)
	}

	order := &model.Order{
		UserID:       userID,
		CustomerName: req.CustomerName,
		TotalPrice:   decimal.Zero,
	}
	if err := s.orderRepo.InsertHeaderTx(ctx, tx, order); err != nil {
		return nil, apperr.Persistence("insert order", err)
	}

	for _, lr := range req.Products {
		product, err := s.catalog.ResolveOrCreate(ctx, tx, lr.Name, lr.Price)
		if err != nil {
			return nil, err
		}
		line := &model.OrderLine{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  lr.Quantity,
			UnitPrice: product.Price,
		}
		if err := s.orderRepo.InsertLineTx(ctx, tx, line); err != nil {
			return nil, apperr.Persistence("insert order line", err)
		}
	}

	if _, err := s.orderRepo.UpdateTotalTx(ctx, tx, order.ID); err != nil {
		return nil, apperr.Persistence("update order total", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Persistence("commit order tx", err)
	}

	committed, err := s.orderRepo.GetByID(ctx, order.ID, userID)
	if err != nil {
		return nil, apperr.Persistence("read back order", err)
	}
	if committed == nil {
		return nil, apperr.Persistence("read back order", fmt.Errorf("order %s missing after commit", order.ID))
	}

	s.publishCreated(ctx, committed)

	resp := toOrderResponse(committed)
	return &resp, nil
}

// Get returns the order only when it is owned by userID. A foreign-owned
// order is indistinguishable from a nonexistent one.
func (s *OrderService) Get(ctx context.Context, orderID, userID uuid.UUID) (*dto.OrderResponse, error) {
	cacheKey := "order:" + orderID.String()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.OrderResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				if resp.UserID != userID {
					return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
				}
				return &resp, nil
			}
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID, userID)
	if err != nil {
		return nil, apperr.Persistence("get order", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}

	resp := toOrderResponse(order)
	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, s.cacheTTL)
		}
	}
	return &resp, nil
}

// List returns the user's orders, newest first, filtered and paginated.
// A page past the end yields an empty list with accurate counts.
func (s *OrderService) List(ctx context.Context, userID uuid.UUID, req dto.ListOrdersRequest) (*dto.OrderListResponse, error) {
	filter, err := parseOrderFilter(req)
	if err != nil {
		return nil, err
	}
	page, perPage := clampPage(req.Page, req.PerPage)

	orders, total, err := s.orderRepo.List(ctx, userID, filter, perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperr.Persistence("list orders", err)
	}

	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, toOrderResponse(&orders[i]))
	}
	return &dto.OrderListResponse{
		Orders:     items,
		Pagination: buildPagination(total, page, perPage),
	}, nil
}

func validateCreateOrder(req dto.CreateOrderRequest) error {
	var details []string
	details = append(details, checkName("customer_name", req.CustomerName)...)
	if len(req.Products) == 0 {
		details = append(details, "products: must contain at least 1 item")
	}
	for i, p := range req.Products {
		field := fmt.Sprintf("products[%d]", i)
		details = append(details, checkNameLength(field+".name", p.Name)...)
		if !p.Price.IsPositive() {
			details = append(details, field+".price: must be greater than 0")
		}
		if p.Quantity <= 0 {
			details = append(details, field+".quantity: must be greater than 0")
		}
	}
	if len(details) > 0 {
		return apperr.Validation(details...)
	}
	return nil
}

func parseOrderFilter(req dto.ListOrdersRequest) (repository.OrderFilter, error) {
	filter := repository.OrderFilter{CustomerName: req.CustomerName}
	var details []string
	if req.StartDate != "" {
		start, err := parseDate(req.StartDate)
		if err != nil {
			details = append(details, "start_date: must be a date in YYYY-MM-DD format")
		} else {
			filter.Start = &start
		}
	}
	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			details = append(details, "end_date: must be a date in YYYY-MM-DD format")
		} else {
			end = endOfDay(end)
			filter.End = &end
		}
	}
	if len(details) > 0 {
		return repository.OrderFilter{}, apperr.Validation(details...)
	}
	return filter, nil
}

// publishCreated emits a fire-and-forget order.created event consumed by the
// report-cache worker. Delivery failures do not fail the already-committed
// order.
func (s *OrderService) publishCreated(ctx context.Context, order *model.Order) {
	if s.amqpCh == nil {
		return
	}
	msg, err := json.Marshal(model.OrderCreatedMessage{OrderID: order.ID, UserID: order.UserID})
	if err != nil {
		return
	}
	_ = s.amqpCh.PublishWithContext(ctx, "", orderQueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         msg,
		DeliveryMode: amqp.Persistent,
	})
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(order.Lines))
	for _, l := range order.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:         l.ProductID,
			Name:       l.ProductName,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return dto.OrderResponse{
		ID:           order.ID,
		UserID:       order.UserID,
		CustomerName: order.CustomerName,
		TotalPrice:   order.TotalPrice,
		Products:     lines,
		CreatedAt:    order.CreatedAt,
	}
}
