// Package amqp publishes notifications to a RabbitMQ fanout exchange.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"github.com/polkiloo/paywebhook/internal/domain/model"
)

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type connection interface {
	Channel() (channel, error)
	Close() error
}

type rabbitConnection struct {
	*amqp091.Connection
}

func (c rabbitConnection) Channel() (channel, error) {
	ch, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

var dial = func(url string) (connection, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}
	return rabbitConnection{conn}, nil
}

// Publisher sends JSON messages to a durable fanout exchange.
type Publisher struct {
	conn     connection
	exchange string
}

// NewPublisher connects and declares the exchange.
func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		exchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{conn: conn, exchange: exchange}, nil
}

// Publish sends payload with routing key on a short-lived channel.
func (p *Publisher) Publish(ctx context.Context, routingKey string, msg amqp091.Publishing) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	return ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
}

func (p *Publisher) Name() string { return "amqp" }

// Deliver publishes notification keyed by its kind.
func (p *Publisher) Deliver(ctx context.Context, n model.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	return p.Publish(ctx, string(n.Kind), amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    n.ID,
		Timestamp:    n.CreatedAt,
		Type:         string(n.Kind),
		Body:         body,
	})
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
