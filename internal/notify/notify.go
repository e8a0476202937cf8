// Package notify publishes order lifecycle events to RabbitMQ so
// kitchen displays and manager dashboards can react in real time.
// Publishing is strictly a side effect: when no broker is configured
// every publish is a no-op, and a broker failure never fails the
// request that triggered it.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"quanan-backend/internal/config"
	"quanan-backend/internal/models"

	"github.com/rabbitmq/amqp091-go"
)

const (
	exchangeName = "orders_fanout"

	EventOrdersCreated      = "orders.created"
	EventOrderStatusChanged = "order.status_changed"
	EventOrdersPaid         = "orders.paid"
)

type Event struct {
	Type      string         `json:"type"`
	Orders    []models.Order `json:"orders"`
	Timestamp time.Time      `json:"timestamp"`
}

type publisher struct {
	conn *amqp091.Connection
	ch   *amqp091.Channel
}

// nil when AMQP_URL is unset
var pub *publisher

func Init(cfg *config.Config) error {
	if cfg.AMQPURL == "" {
		return nil
	}

	conn, err := amqp091.Dial(cfg.AMQPURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchangeName,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	pub = &publisher{conn: conn, ch: ch}
	log.Println("connected to RabbitMQ, order notifications enabled")
	return nil
}

func Close() {
	if pub == nil {
		return
	}
	pub.ch.Close()
	pub.conn.Close()
	pub = nil
}

func OrdersCreated(orders []models.Order) error {
	return publish(EventOrdersCreated, orders)
}

func OrderStatusChanged(order models.Order) error {
	return publish(EventOrderStatusChanged, []models.Order{order})
}

func OrdersPaid(orders []models.Order) error {
	return publish(EventOrdersPaid, orders)
}

func publish(eventType string, orders []models.Order) error {
	if pub == nil {
		return nil
	}

	body, err := json.Marshal(Event{
		Type:      eventType,
		Orders:    orders,
		Timestamp: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = pub.ch.PublishWithContext(
		ctx,
		exchangeName,
		"",    // fanout ignores routing keys
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}
	return nil
}
