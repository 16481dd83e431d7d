package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackofish/market/internal/db"
	"github.com/jackofish/market/internal/orders/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	sqlDB, err := db.Connect(&db.Credentials{
		Host:     host,
		Port:     port.Int(),
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	})
	require.NoError(t, err)

	require.NoError(t, db.RunMigrations(sqlDB, "../../../migrations"))

	cleanup := func() {
		sqlDB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return NewRepository(sqlDB), cleanup
}

func newTestOrder() *domain.Order {
	style := "fillet"
	return &domain.Order{
		ID:            uuid.NewString(),
		OrderNumber:   domain.GenerateOrderNumber(time.Now()),
		CustomerName:  "דני לוי",
		CustomerPhone: "0501234567",
		CustomerEmail: "dani@example.com",
		Address:       "הרצל 10",
		City:          "תל אביב",
		Subtotal:      180,
		DeliveryFee:   30,
		Total:         210,
		Status:        domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductID: "prod-1", ProductName: "סלמון", Quantity: 2, UnitPrice: 90, TotalPrice: 180, CuttingStyle: &style},
		},
	}
}

func newTestEvent(order *domain.Order) *OutboxEvent {
	return &OutboxEvent{
		AggregateID: order.ID,
		EventType:   "order_created",
		Payload:     []byte(`{"orderNumber":"` + order.OrderNumber + `"}`),
	}
}

func TestCreateOrder_Success(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder()

	require.NoError(t, repo.CreateOrder(ctx, order, newTestEvent(order)))

	fetched, err := repo.GetOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Equal(t, order.OrderNumber, fetched.OrderNumber)
	assert.Equal(t, order.CustomerName, fetched.CustomerName)
	assert.Equal(t, order.Subtotal, fetched.Subtotal)
	assert.Equal(t, order.DeliveryFee, fetched.DeliveryFee)
	assert.Equal(t, order.Total, fetched.Total)
	assert.Equal(t, domain.OrderStatusPending, fetched.Status)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, "prod-1", fetched.Items[0].ProductID)
	require.NotNil(t, fetched.Items[0].CuttingStyle)
	assert.Equal(t, "fillet", *fetched.Items[0].CuttingStyle)
}

func TestCreateOrder_DuplicateNumber(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order1 := newTestOrder()
	require.NoError(t, repo.CreateOrder(ctx, order1, nil))

	order2 := newTestOrder()
	order2.OrderNumber = order1.OrderNumber
	err := repo.CreateOrder(ctx, order2, nil)
	assert.ErrorIs(t, err, ErrDuplicateOrderNumber)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetOrderByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrders_StatusFilter(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	pending := newTestOrder()
	require.NoError(t, repo.CreateOrder(ctx, pending, nil))

	confirmed := newTestOrder()
	require.NoError(t, repo.CreateOrder(ctx, confirmed, nil))
	require.NoError(t, repo.UpdateOrderStatus(ctx, confirmed.ID, domain.OrderStatusConfirmed))

	all, err := repo.ListOrders(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyConfirmed, err := repo.ListOrders(ctx, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	require.Len(t, onlyConfirmed, 1)
	assert.Equal(t, confirmed.ID, onlyConfirmed[0].ID)
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.UpdateOrderStatus(context.Background(), uuid.NewString(), domain.OrderStatusReady)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOutbox_PublishLifecycle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder()
	require.NoError(t, repo.CreateOrder(ctx, order, newTestEvent(order)))

	events, err := repo.GetUnpublishedEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, order.ID, events[0].AggregateID)
	assert.Equal(t, "order_created", events[0].EventType)

	require.NoError(t, repo.MarkEventPublished(ctx, events[0].ID))

	events, err = repo.GetUnpublishedEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}
