package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"resto-api/logger"
)

// RabbitDispatcher publishes events to a fanout exchange the real-time
// gateway consumes from.
type RabbitDispatcher struct {
	url      string
	exchange string
	log      *logger.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	wg      sync.WaitGroup
}

func NewRabbitDispatcher(url, exchange string, log *logger.Logger) (*RabbitDispatcher, error) {
	d := &RabbitDispatcher{url: url, exchange: exchange, log: log}
	if err := d.connect(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *RabbitDispatcher) connect() error {
	conn, err := amqp.Dial(d.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(d.exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", d.exchange, err)
	}
	d.conn = conn
	d.channel = ch
	return nil
}

func (d *RabbitDispatcher) Dispatch(ctx context.Context, event Event) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.publish(pubCtx, event); err != nil {
			d.log.Error("notification_failed", event.RequestID, "Failed to publish event", err,
				slog.String("type", event.Type),
				slog.String("channel", event.Channel),
			)
		}
	}()
}

func (d *RabbitDispatcher) publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil || d.conn.IsClosed() {
		if err := d.connect(); err != nil {
			return err
		}
	}

	return d.channel.PublishWithContext(ctx, d.exchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Transient,
		Timestamp:    event.SentAt,
		Type:         event.Type,
		Body:         body,
	})
}

// Close waits for in-flight publishes and closes the connection.
func (d *RabbitDispatcher) Close() error {
	d.wg.Wait()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.channel != nil {
		d.channel.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
