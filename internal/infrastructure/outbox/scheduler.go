package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/google/uuid"
)

// Scheduler implements integration.JobScheduler by writing jobs to the outbox.
// Called from a commit hook, the job is stored only if the commit succeeds.
type Scheduler struct {
	repo       shared.OutboxRepository
	maxRetries int
}

// NewScheduler creates an outbox scheduler. maxRetries <= 0 keeps the entry default.
func NewScheduler(repo shared.OutboxRepository, maxRetries int) *Scheduler {
	return &Scheduler{repo: repo, maxRetries: maxRetries}
}

// Schedule implements integration.JobScheduler
func (s *Scheduler) Schedule(ctx context.Context, channelID uuid.UUID, connector string, payload integration.PriceExportPayload) error {
	job := integration.NewExportJob(channelID, connector, payload)
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("outbox: encode job: %w", err)
	}

	entry := shared.NewOutboxEntry(channelID, connector, data)
	if s.maxRetries > 0 {
		entry.MaxRetries = s.maxRetries
	}
	if err := s.repo.Save(ctx, entry); err != nil {
		return fmt.Errorf("outbox: save job: %w", err)
	}
	return nil
}

var _ integration.JobScheduler = (*Scheduler)(nil)
