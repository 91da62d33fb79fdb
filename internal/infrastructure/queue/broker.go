// Package queue is the RabbitMQ scheduler backend: export jobs are published
// to a durable queue and executed by a consumer, possibly in another process.
package queue

import (
	"context"
)

// Broker publishes and consumes raw messages on named queues
type Broker interface {
	Publish(ctx context.Context, queueName string, message []byte) error
	Subscribe(ctx context.Context, queueName string, handler MessageHandler) error
	Close() error
}

// MessageHandler processes one delivered message. An error triggers redelivery.
type MessageHandler func(ctx context.Context, message []byte) error

// DeadLetterQueue returns the queue that receives messages which ran out of retries
func DeadLetterQueue(queueName string) string {
	return queueName + "-dlq"
}
