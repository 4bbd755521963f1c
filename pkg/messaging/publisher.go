package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"travel-backoffice/pkg/utils"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, event BookingEvent) error
	Close() error
}

// RabbitMQPublisher publishes booking events to a durable topic exchange and
// redials when the broker drops the connection.
type RabbitMQPublisher struct {
	cfg  utils.RabbitMQConfig
	log  *zap.Logger
	mu   sync.RWMutex
	conn *amqp.Connection
	ch   *amqp.Channel

	closing bool
}

func NewRabbitMQPublisher(cfg utils.RabbitMQConfig, log *zap.Logger) (*RabbitMQPublisher, error) {
	p := &RabbitMQPublisher{
		cfg: cfg,
		log: log.With(zap.String("component", "publisher"), zap.String("exchange", cfg.Exchange)),
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RabbitMQPublisher) connect() error {
	attempts := p.cfg.RetryCount
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		conn, ch, err := p.dial()
		if err == nil {
			p.mu.Lock()
			p.conn, p.ch = conn, ch
			p.mu.Unlock()

			p.log.Info("Connected to RabbitMQ")
			go p.watch(conn)
			return nil
		}

		lastErr = err
		p.log.Warn("RabbitMQ connection failed",
			zap.Error(err),
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", attempts),
		)
		if i < attempts-1 {
			time.Sleep(p.cfg.RetryDelay)
		}
	}

	return fmt.Errorf("connect to rabbitmq: %w", lastErr)
}

func (p *RabbitMQPublisher) dial() (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.cfg.Exchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", p.cfg.Exchange, err)
	}

	return conn, ch, nil
}

func (p *RabbitMQPublisher) watch(conn *amqp.Connection) {
	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	err, ok := <-closed

	p.mu.RLock()
	closing := p.closing
	p.mu.RUnlock()
	if closing || !ok {
		return
	}

	p.log.Warn("RabbitMQ connection lost, reconnecting", zap.Any("reason", err))
	if err := p.connect(); err != nil {
		p.log.Error("RabbitMQ reconnect failed", zap.Error(err))
	}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, event BookingEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.RLock()
	ch := p.ch
	p.mu.RUnlock()
	if ch == nil {
		return fmt.Errorf("publish %s: no rabbitmq channel", event.RoutingKey())
	}

	err = ch.Publish(
		p.cfg.Exchange,
		event.RoutingKey(),
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.Timestamp,
			Headers: amqp.Table{
				"booking_id": event.BookingID.String(),
				"package_id": event.PackageID.String(),
				"event_type": string(event.Type),
			},
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.RoutingKey(), err)
	}

	p.log.Debug("Event published",
		zap.String("routing_key", event.RoutingKey()),
		zap.String("booking_id", event.BookingID.String()),
	)
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closing = true
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// LogPublisher stands in for the broker when messaging is disabled.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.With(zap.String("component", "publisher"))}
}

func (p *LogPublisher) Publish(_ context.Context, event BookingEvent) error {
	p.log.Debug("Booking event",
		zap.String("routing_key", event.RoutingKey()),
		zap.String("booking_id", event.BookingID.String()),
		zap.String("reference", event.Reference),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
