// Package events publishes order lifecycle notifications to RabbitMQ.
// Publishing is request-driven and best effort; callers log and continue
// when it fails.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"foodorder/internal/domain"
	"github.com/rabbitmq/amqp091-go"
)

const exchange = "order.events"

type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	logger  *log.Logger
}

// Connect dials RabbitMQ and declares the topic exchange.
func Connect(url string, logger *log.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: ch, logger: logger}, nil
}

type orderEvent struct {
	OrderID    string    `json:"orderId"`
	Number     string    `json:"number"`
	UserID     string    `json:"userId"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"totalCents"`
	OccurredAt time.Time `json:"occurredAt"`
}

// OrderCreated emits an order.created event.
func (p *Publisher) OrderCreated(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, "order.created", order)
}

// OrderStatusChanged emits an order.status.<status> event.
func (p *Publisher) OrderStatusChanged(ctx context.Context, order domain.Order) error {
	return p.publish(ctx, "order.status."+string(order.Status), order)
}

func (p *Publisher) publish(ctx context.Context, routingKey string, order domain.Order) error {
	body, err := json.Marshal(orderEvent{
		OrderID:    order.ID,
		Number:     order.Number,
		UserID:     order.UserID,
		Status:     string(order.Status),
		TotalCents: order.TotalCents,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(ctx, exchange, routingKey, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.Printf("published %s for order %s", routingKey, order.ID)
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
