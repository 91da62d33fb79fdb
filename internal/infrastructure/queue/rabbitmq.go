package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	headerRetryCount    = "x-retry-count"
	headerOriginalQueue = "x-original-queue"
	headerError         = "x-error"
)

// Config holds RabbitMQ broker settings
type Config struct {
	URL           string
	Queues        []string // declared with their dead letter queues on connect
	PrefetchCount int
	MaxRetries    int
	RetryDelay    time.Duration // base delay, doubled per attempt
}

// RabbitMQBroker implements Broker on a single AMQP channel
type RabbitMQBroker struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  Config
	logger  *zap.Logger
	mu      sync.RWMutex
}

// NewRabbitMQBroker connects, sets QoS and declares the configured queues
func NewRabbitMQBroker(cfg Config, logger *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	broker := &RabbitMQBroker{
		conn:    conn,
		channel: channel,
		config:  cfg,
		logger:  logger,
	}

	for _, queueName := range cfg.Queues {
		for _, name := range []string{queueName, DeadLetterQueue(queueName)} {
			if err := broker.declareQueue(name); err != nil {
				broker.Close()
				return nil, err
			}
		}
	}

	return broker, nil
}

func (b *RabbitMQBroker) declareQueue(queueName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	return nil
}

// Publish sends a persistent JSON message to a queue
func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	return b.publish(ctx, queueName, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         message,
		Timestamp:    time.Now(),
	})
}

func (b *RabbitMQBroker) publish(ctx context.Context, queueName string, msg amqp.Publishing) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	err := b.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// Subscribe consumes a queue with manual acks until ctx is done
func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	msgs, err := b.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

// handleMessage acks the delivery once it is handled. A failed message is
// republished with an incremented retry count, or to the dead letter queue
// once retries run out.
func (b *RabbitMQBroker) handleMessage(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	err := handler(ctx, msg.Body)
	if err == nil {
		_ = msg.Ack(false)
		return
	}

	attempt := retryCount(msg.Headers)
	if attempt < b.config.MaxRetries {
		select {
		case <-ctx.Done():
			// shutting down: leave the message to the broker
			_ = msg.Nack(false, true)
			return
		case <-time.After(retryDelay(b.config.RetryDelay, attempt)):
		}
		defer func() { _ = msg.Ack(false) }()

		if pubErr := b.publish(ctx, queueName, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			Headers:      amqp.Table{headerRetryCount: int32(attempt + 1)},
			Timestamp:    time.Now(),
		}); pubErr != nil {
			b.logger.Error("Failed to requeue message", zap.String("queue", queueName), zap.Error(pubErr))
		}
		return
	}

	defer func() { _ = msg.Ack(false) }()
	b.logger.Warn("Message moved to dead letter queue",
		zap.String("queue", queueName),
		zap.Int("retry_count", attempt),
		zap.Error(err),
	)
	if pubErr := b.publish(ctx, DeadLetterQueue(queueName), amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  msg.ContentType,
		Body:         msg.Body,
		Headers: amqp.Table{
			headerOriginalQueue: queueName,
			headerRetryCount:    int32(attempt),
			headerError:         err.Error(),
		},
		Timestamp: time.Now(),
	}); pubErr != nil {
		b.logger.Error("Failed to dead-letter message", zap.String("queue", queueName), zap.Error(pubErr))
	}
}

// Close closes the channel and the connection
func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// retryCount reads the redelivery counter. Header integers arrive with
// different widths depending on the publisher.
func retryCount(headers amqp.Table) int {
	if headers == nil {
		return 0
	}
	switch v := headers[headerRetryCount].(type) {
	case int32:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// retryDelay is base * 2^attempt
func retryDelay(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(1<<uint(attempt))
}

var _ Broker = (*RabbitMQBroker)(nil)
