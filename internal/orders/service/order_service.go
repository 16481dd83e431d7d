package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	cart "github.com/jackofish/market/internal/cart/domain"
	catalog "github.com/jackofish/market/internal/catalog/domain"
	"github.com/jackofish/market/internal/orders/domain"
	"github.com/jackofish/market/internal/orders/repository"
)

var (
	ErrNameRequired    = errors.New("customer name required")
	ErrPhoneRequired   = errors.New("customer phone required")
	ErrAddressRequired = errors.New("address required")
	ErrCityRequired    = errors.New("city required")
	ErrEmptyOrder      = errors.New("order needs at least one item")
	ErrProductGone     = errors.New("order references a product that no longer exists")
)

const maxOrderNumberAttempts = 10

// ProductLookup is the slice of the catalog the order service needs to
// re-validate a submitted cart.
type ProductLookup interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]*catalog.Product, error)
}

type SubmitRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Address       string
	City          string
	Notes         string
	Items         []domain.OrderItem
}

type OrderService struct {
	repo    repository.OrderRepository
	catalog ProductLookup
	now     func() time.Time
}

func NewOrderService(repo repository.OrderRepository, catalog ProductLookup) *OrderService {
	return &OrderService{repo: repo, catalog: catalog, now: time.Now}
}

// Submit validates the request, re-checks every referenced product still
// exists (the whole order is rejected otherwise, never a partial one),
// recomputes the totals server-side and persists the order as PENDING with
// an order_created outbox event. Returns the created order with its
// generated human-readable number.
func (s *OrderService) Submit(ctx context.Context, req *SubmitRequest) (*domain.Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(req.Items))
	seen := make(map[string]bool)
	for _, item := range req.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	found, err := s.catalog.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("verify products: %w", err)
	}
	if len(found) != len(ids) {
		return nil, ErrProductGone
	}

	// Totals are recomputed here rather than trusted from the submission;
	// unit prices stay the frozen add-time snapshots.
	var subtotal float64
	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		item.TotalPrice = item.UnitPrice * float64(item.Quantity)
		items[i] = item
		subtotal += item.TotalPrice
	}
	deliveryFee := 0.0
	if subtotal < cart.FreeDeliveryThreshold {
		deliveryFee = cart.DeliveryFee
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		Notes:         strings.TrimSpace(req.Notes),
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Total:         subtotal + deliveryFee,
		Status:        domain.OrderStatusPending,
		Items:         items,
	}

	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = domain.GenerateOrderNumber(s.now())

		event, err := orderCreatedEvent(order)
		if err != nil {
			return nil, err
		}
		createErr := s.repo.CreateOrder(ctx, order, event)
		if createErr == nil {
			return order, nil
		}
		if !errors.Is(createErr, repository.ErrDuplicateOrderNumber) {
			return nil, createErr
		}
		log.Printf("order number collision on %s, regenerating", order.OrderNumber)
	}
	return nil, fmt.Errorf("could not generate a unique order number after %d attempts", maxOrderNumberAttempts)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func (s *OrderService) ListOrders(ctx context.Context, status domain.OrderStatus) ([]*domain.Order, error) {
	return s.repo.ListOrders(ctx, status)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if err := s.repo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.repo.GetOrderByID(ctx, id)
}

// Cancel is the admin delete: orders are never removed, only marked
// CANCELLED.
func (s *OrderService) Cancel(ctx context.Context, id string) error {
	return s.repo.UpdateOrderStatus(ctx, id, domain.OrderStatusCancelled)
}

func validate(req *SubmitRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		return ErrPhoneRequired
	}
	if strings.TrimSpace(req.Address) == "" {
		return ErrAddressRequired
	}
	if strings.TrimSpace(req.City) == "" {
		return ErrCityRequired
	}
	if len(req.Items) == 0 {
		return ErrEmptyOrder
	}
	return nil
}

func orderCreatedEvent(order *domain.Order) (*repository.OutboxEvent, error) {
	// Notification consumers render the payload as-is, so items carry the
	// Hebrew cutting-style label next to the raw value.
	items := make([]map[string]interface{}, len(order.Items))
	for i, item := range order.Items {
		entry := map[string]interface{}{
			"product_id":   item.ProductID,
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"unit_price":   item.UnitPrice,
			"total_price":  item.TotalPrice,
		}
		if item.CuttingStyle != nil {
			entry["cutting_style"] = *item.CuttingStyle
			entry["cutting_style_label"] = cart.CuttingStyleLabel(*item.CuttingStyle)
		}
		items[i] = entry
	}

	payload, err := json.Marshal(map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"customer":     order.CustomerName,
		"city":         order.City,
		"total":        order.Total,
		"items":        items,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal order event: %w", err)
	}
	return &repository.OutboxEvent{
		AggregateID: order.ID,
		EventType:   "order_created",
		Payload:     payload,
	}, nil
}
