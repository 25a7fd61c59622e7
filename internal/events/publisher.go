package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/reparto-app/reparto-sales-service/internal/config"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/settlement"
)

// EventType identifies the kind of sale event.
type EventType string

const (
	EventTypeOrderCreated   EventType = "order.created"
	EventTypeOrderDelivered EventType = "order.delivered"
	EventTypeOrderCancelled EventType = "order.cancelled"
)

// SaleEvent is the envelope published for every order lifecycle change.
type SaleEvent struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	OrderID       string          `json:"order_id"`
	CustomerID    string          `json:"customer_id"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}

// Publisher publishes order lifecycle events. Publishing is fire-and-forget
// from the caller's perspective; failures are logged, never propagated into
// the request path.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderDelivered(ctx context.Context, order *models.Order, result settlement.Result) error
	PublishOrderCancelled(ctx context.Context, order *models.Order) error
	Close() error
}

// Ensure KafkaPublisher implements Publisher
var _ Publisher = (*KafkaPublisher)(nil)

// KafkaPublisher publishes sale events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher creates a new Kafka-based event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *slog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.SalesTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.SalesTopic,
		logger: logger,
	}
}

// PublishOrderCreated publishes an order created event.
func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.newEvent(EventTypeOrderCreated, order, data))
}

// PublishOrderDelivered publishes a delivery event carrying the settlement
// outcome.
func (p *KafkaPublisher) PublishOrderDelivered(ctx context.Context, order *models.Order, result settlement.Result) error {
	payload := struct {
		Order      *models.Order `json:"order"`
		TotalPaid  float64       `json:"total_paid"`
		Difference float64       `json:"difference"`
		NewDebt    float64       `json:"new_debt"`
	}{
		Order:      order,
		TotalPaid:  result.TotalPaid,
		Difference: result.Difference,
		NewDebt:    result.NewDebt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.newEvent(EventTypeOrderDelivered, order, data))
}

// PublishOrderCancelled publishes an order cancellation event.
func (p *KafkaPublisher) PublishOrderCancelled(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.newEvent(EventTypeOrderCancelled, order, data))
}

func (p *KafkaPublisher) newEvent(eventType EventType, order *models.Order, data []byte) *SaleEvent {
	return &SaleEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Data:       data,
		Timestamp:  time.Now(),
	}
}

func (p *KafkaPublisher) publish(ctx context.Context, event *SaleEvent) error {
	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish event",
			"event_id", event.ID,
			"event_type", event.Type,
			"order_id", event.OrderID,
			"error", err)
		return err
	}

	p.logger.Debug("event published",
		"event_id", event.ID,
		"event_type", event.Type,
		"order_id", event.OrderID)
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("closing kafka publisher")
	return p.writer.Close()
}

// NoopPublisher satisfies Publisher when events are disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *models.Order) error {
	return nil
}

func (NoopPublisher) PublishOrderDelivered(context.Context, *models.Order, settlement.Result) error {
	return nil
}

func (NoopPublisher) PublishOrderCancelled(context.Context, *models.Order) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
