package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/tably/orders-api/internal/model"
	"github.com/tably/orders-api/internal/service"
)

const (
	orderQueueName = "orders.created"
	dlxExchange    = "orders.created.dlx"
	dlqQueueName   = "orders.created.dlq"
)

// OrderWorker consumes order.created events and bumps the owner's report
// cache version so already-cached report pages stop being served.
type OrderWorker struct {
	channel     *amqp.Channel
	redisClient *redis.Client
	log         *slog.Logger
	dedupTTL    time.Duration
	done        chan struct{}
}

func NewOrderWorker(ch *amqp.Channel, redisClient *redis.Client, log *slog.Logger, dedupTTL time.Duration) *OrderWorker {
	return &OrderWorker{
		channel:     ch,
		redisClient: redisClient,
		log:         log,
		dedupTTL:    dedupTTL,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares the order event queue with its DLX/DLQ pair.
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *OrderWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order worker started")
	return nil
}

func (w *OrderWorker) Stop() { close(w.done) }

func (w *OrderWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderCreatedMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("order_id", event.OrderID, "user_id", event.UserID)

	// Redelivered events must not bump the version twice.
	idempotencyKey := "order_event:" + event.OrderID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("order event already handled, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.redisClient.Incr(ctx, service.ReportVersionKey(event.UserID)).Err(); err != nil {
		log.Error("bump report cache version", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", w.dedupTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("report cache invalidated")
}
