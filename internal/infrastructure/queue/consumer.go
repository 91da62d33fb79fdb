package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erp/pricesync/internal/domain/integration"
	"go.uber.org/zap"
)

// Consumer executes export jobs delivered on a queue
type Consumer struct {
	broker  Broker
	queue   string
	handler integration.ExportJobHandler
	logger  *zap.Logger
}

// NewConsumer creates a job consumer
func NewConsumer(broker Broker, queueName string, handler integration.ExportJobHandler, logger *zap.Logger) *Consumer {
	return &Consumer{
		broker:  broker,
		queue:   queueName,
		handler: handler,
		logger:  logger,
	}
}

// Start subscribes to the queue. Consumption stops when ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	if err := c.broker.Subscribe(ctx, c.queue, c.handleMessage); err != nil {
		return err
	}
	c.logger.Info("Export job consumer started", zap.String("queue", c.queue))
	return nil
}

func (c *Consumer) handleMessage(ctx context.Context, message []byte) error {
	var job integration.ExportJob
	if err := json.Unmarshal(message, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}

	if err := c.handler.Handle(ctx, job); err != nil {
		c.logger.Warn("Export job failed",
			zap.String("job_id", job.ID.String()),
			zap.String("channel_id", job.ChannelID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
