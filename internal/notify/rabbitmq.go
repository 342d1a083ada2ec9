package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/k8s-demo/order-service/internal/models"
)

const (
	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

// channel is the subset of *amqp.Channel used for publishing
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQNotifier publishes order notifications to a durable queue on the default exchange.
// It is safe for concurrent use; each publish is bounded by the configured timeout.
type RabbitMQNotifier struct {
	conn    *amqp.Connection
	ch      channel
	queue   string
	timeout time.Duration
	log     *slog.Logger
}

// Dial connects to RabbitMQ, retrying while the broker starts, and declares the queue
func Dial(ctx context.Context, url, queue string, timeout time.Duration, log *slog.Logger) (*RabbitMQNotifier, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Warn("failed to connect to RabbitMQ", "attempt", i+1, "error", err)
		if i == dialAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(dialBackoff):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("could not declare queue %s: %w", queue, err)
	}

	log.Info("order notifications enabled", "queue", queue)

	n := newRabbitMQNotifier(ch, queue, timeout, log)
	n.conn = conn
	return n, nil
}

func newRabbitMQNotifier(ch channel, queue string, timeout time.Duration, log *slog.Logger) *RabbitMQNotifier {
	return &RabbitMQNotifier{
		ch:      ch,
		queue:   queue,
		timeout: timeout,
		log:     log,
	}
}

// NotifyOrderCreated publishes n as a persistent JSON message
func (p *RabbitMQNotifier) NotifyOrderCreated(ctx context.Context, n models.OrderNotification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("could not marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    n.ID,
			Timestamp:    n.Timestamp,
			Type:         n.Event,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("could not publish to %s: %w", p.queue, err)
	}

	p.log.Debug("order notification published", "order_id", n.OrderID, "message_id", n.ID)
	return nil
}

// Close releases the channel and connection
func (p *RabbitMQNotifier) Close() error {
	if err := p.ch.Close(); err != nil {
		return fmt.Errorf("could not close channel: %w", err)
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("could not close connection: %w", err)
		}
	}
	return nil
}
