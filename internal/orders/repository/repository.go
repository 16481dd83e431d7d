package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackofish/market/internal/orders/domain"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
)

// OutboxEvent is a pending domain event persisted in the same transaction
// as the order it describes.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order, event *OutboxEvent) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) error

	GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id int64) error
}
