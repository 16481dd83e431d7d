package domain

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem is a frozen copy of a cart line at submission time. Later
// catalog edits never change a placed order.
type OrderItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
	CuttingStyle *string `json:"cutting_style"`
}

type Order struct {
	ID            string      `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerName  string      `json:"customerName"`
	CustomerPhone string      `json:"customerPhone"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	Address       string      `json:"address"`
	City          string      `json:"city"`
	Notes         string      `json:"notes,omitempty"`
	Subtotal      float64     `json:"subtotal"`
	DeliveryFee   float64     `json:"deliveryFee"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	Items         []OrderItem `json:"items"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

const orderNumberAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateOrderNumber builds a human-readable number like JF-20260829-X4T9.
// The random suffix keeps same-day collisions rare; callers still retry on
// the unique constraint.
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("JF-%s-%s", now.Format("20060102"), strings.ToUpper(string(suffix)))
}
