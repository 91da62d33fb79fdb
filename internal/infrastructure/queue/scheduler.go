package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/google/uuid"
)

// Scheduler implements integration.JobScheduler by publishing jobs to a queue.
// A publish is bounded by timeout so a slow broker cannot stall a commit.
type Scheduler struct {
	broker  Broker
	queue   string
	timeout time.Duration
}

// NewScheduler creates a queue scheduler
func NewScheduler(broker Broker, queueName string, timeout time.Duration) *Scheduler {
	return &Scheduler{broker: broker, queue: queueName, timeout: timeout}
}

// Schedule implements integration.JobScheduler
func (s *Scheduler) Schedule(ctx context.Context, channelID uuid.UUID, connector string, payload integration.PriceExportPayload) error {
	job := integration.NewExportJob(channelID, connector, payload)
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: encode job: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.broker.Publish(ctx, s.queue, data); err != nil {
		return fmt.Errorf("queue: publish job %s: %w", job.ID, err)
	}
	return nil
}

var _ integration.JobScheduler = (*Scheduler)(nil)
