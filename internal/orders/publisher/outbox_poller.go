// Package publisher drains the order outbox into Kafka so downstream
// consumers (notifications, reporting) hear about new orders without
// checkout ever blocking on the broker.
package publisher

import (
	"context"
	"log"
	"time"

	"github.com/jackofish/market/internal/orders/repository"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

const orderEventsTopic = "storefront.orders"

type OutboxSource interface {
	GetUnpublishedEvents(ctx context.Context, limit int) ([]*repository.OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id int64) error
}

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type OutboxPoller struct {
	tick      time.Duration
	batchSize int
	repo      OutboxSource
	writer    MessageWriter
	breaker   *gobreaker.CircuitBreaker[any]
}

func NewOutboxPoller(repo OutboxSource, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return newPoller(repo, w)
}

func newPoller(repo OutboxSource, writer MessageWriter) *OutboxPoller {
	// The breaker keeps a dead broker from being hammered every tick;
	// unpublished rows simply wait for the next closed interval.
	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "order-events-kafka",
		Timeout: 30 * time.Second,
	})
	return &OutboxPoller{
		tick:      time.Second,
		batchSize: 100,
		repo:      repo,
		writer:    writer,
		breaker:   breaker,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.publishPending(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) publishPending(ctx context.Context) {
	events, err := p.repo.GetUnpublishedEvents(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if err := p.publish(ctx, event); err != nil {
			log.Printf("failed to publish outbox event id=%d: %v", event.ID, err)
			continue
		}
		if err := p.repo.MarkEventPublished(ctx, event.ID); err != nil {
			log.Printf("failed to mark outbox event id=%d published: %v", event.ID, err)
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id keeps per-order ordering
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	_, err := p.breaker.Execute(func() (any, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})
	return err
}
