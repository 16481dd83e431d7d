package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackofish/market/internal/orders/repository"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockOutbox struct {
	m         sync.Mutex
	events    []*repository.OutboxEvent
	published map[int64]bool
	fetchErr  error
}

func newMockOutbox(events ...*repository.OutboxEvent) *mockOutbox {
	return &mockOutbox{events: events, published: make(map[int64]bool)}
}

func (m *mockOutbox) GetUnpublishedEvents(_ context.Context, limit int) ([]*repository.OutboxEvent, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var pending []*repository.OutboxEvent
	for _, e := range m.events {
		if !m.published[e.ID] && len(pending) < limit {
			pending = append(pending, e)
		}
	}
	return pending, nil
}

func (m *mockOutbox) MarkEventPublished(_ context.Context, id int64) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.published[id] = true
	return nil
}

type mockWriter struct {
	m        sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.m.Lock()
	defer w.m.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func event(id int64, orderID string) *repository.OutboxEvent {
	return &repository.OutboxEvent{
		ID:          id,
		AggregateID: orderID,
		EventType:   "order_created",
		Payload:     []byte(`{"order_id":"` + orderID + `"}`),
	}
}

func TestPublishPending_PublishesAndMarks(t *testing.T) {
	outbox := newMockOutbox(event(1, "order-a"), event(2, "order-b"))
	writer := &mockWriter{}
	p := newPoller(outbox, writer)

	p.publishPending(context.Background())

	require.Len(t, writer.messages, 2)
	assert.Equal(t, []byte("order-a"), writer.messages[0].Key)
	assert.Equal(t, "event_type", writer.messages[0].Headers[0].Key)
	assert.True(t, outbox.published[1])
	assert.True(t, outbox.published[2])
}

func TestPublishPending_WriteFailureLeavesEventPending(t *testing.T) {
	outbox := newMockOutbox(event(1, "order-a"))
	writer := &mockWriter{err: errors.New("broker down")}
	p := newPoller(outbox, writer)

	p.publishPending(context.Background())

	assert.False(t, outbox.published[1])

	// Broker recovers; the same event goes out on a later tick.
	writer.err = nil
	p.publishPending(context.Background())
	assert.True(t, outbox.published[1])
	assert.Len(t, writer.messages, 1)
}

func TestPublishPending_FetchErrorIsNonFatal(t *testing.T) {
	outbox := newMockOutbox(event(1, "order-a"))
	outbox.fetchErr = errors.New("db gone")
	writer := &mockWriter{}
	p := newPoller(outbox, writer)

	p.publishPending(context.Background())
	assert.Empty(t, writer.messages)
}

func TestBreaker_OpensAfterRepeatedFailures(t *testing.T) {
	outbox := newMockOutbox(event(1, "order-a"))
	writer := &mockWriter{err: errors.New("broker down")}
	p := newPoller(outbox, writer)
	ctx := context.Background()

	// Enough consecutive failures to trip the default breaker.
	for i := 0; i < 10; i++ {
		p.publishPending(ctx)
	}

	// With the breaker open the writer is no longer called.
	writer.m.Lock()
	writer.err = nil
	writer.m.Unlock()
	p.publishPending(ctx)
	assert.Empty(t, writer.messages)
}
