// Package service connects transfer writes to the rest of the system:
// change events are published to RabbitMQ (or handled in-process when no
// broker is configured) and turned into response cache invalidations.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/flight-transfer-admin/internal/queue"
)

// Publisher emits transfer change events.
type Publisher interface {
	Publish(ctx context.Context, ev queue.TransferChangedEvent) error
	Close() error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue.  The
// connection is opened lazily and re-dialed after a failure.
type AMQPPublisher struct {
	url    string
	queue  string
	logger *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPPublisher returns a publisher for the named queue.  No connection
// is made until the first Publish.
func NewAMQPPublisher(url, queueName string, logger *zap.Logger) *AMQPPublisher {
	if queueName == "" {
		queueName = queue.TransferChangedQueue
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{url: url, queue: queueName, logger: logger}
}

func (p *AMQPPublisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Publish sends ev as a persistent JSON message routed to the queue.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.TransferChangedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
	if err != nil {
		p.reset()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// LocalPublisher hands events straight to a queue.Handler in-process.
type LocalPublisher struct {
	handle queue.Handler
}

// NewLocalPublisher returns a publisher that calls handle synchronously.
func NewLocalPublisher(handle queue.Handler) *LocalPublisher {
	return &LocalPublisher{handle: handle}
}

func (p *LocalPublisher) Publish(ctx context.Context, ev queue.TransferChangedEvent) error {
	if p.handle == nil {
		return nil
	}
	return p.handle(ctx, ev)
}

func (p *LocalPublisher) Close() error { return nil }
