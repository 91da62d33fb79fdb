package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RelayConfig holds configuration for the outbox relay
type RelayConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// DefaultRelayConfig returns default configuration
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  time.Hour,
	}
}

// Relay polls committed outbox jobs and hands them to the export job handler.
// Failed jobs are retried with exponential backoff until they go dead.
type Relay struct {
	repo    shared.OutboxRepository
	handler integration.ExportJobHandler
	config  RelayConfig
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRelay creates a new outbox relay. Non-positive batch size and intervals
// take their default values.
func NewRelay(repo shared.OutboxRepository, handler integration.ExportJobHandler, config RelayConfig, logger *zap.Logger) *Relay {
	defaults := DefaultRelayConfig()
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = defaults.CleanupInterval
	}
	return &Relay{
		repo:    repo,
		handler: handler,
		config:  config,
		logger:  logger,
	}
}

// Start starts the background polling
func (r *Relay) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go r.processLoop(ctx)

	if r.config.CleanupEnabled {
		r.wg.Add(1)
		go r.cleanupLoop(ctx)
	}

	r.logger.Info("Outbox relay started",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Duration("poll_interval", r.config.PollInterval),
	)
	return nil
}

// Stop gracefully stops the relay
func (r *Relay) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("Outbox relay stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Relay) processLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.processBatch(ctx)
		}
	}
}

// processBatch runs pending jobs first, then failed jobs that are due
func (r *Relay) processBatch(ctx context.Context) {
	pending, err := r.repo.FindPending(ctx, r.config.BatchSize)
	if err != nil {
		r.logger.Error("Failed to find pending sync jobs", zap.Error(err))
		return
	}
	if len(pending) > 0 {
		r.processEntries(ctx, pending)
	}

	retryable, err := r.repo.FindRetryable(ctx, time.Now(), r.config.BatchSize)
	if err != nil {
		r.logger.Error("Failed to find retryable sync jobs", zap.Error(err))
		return
	}
	if len(retryable) > 0 {
		r.processEntries(ctx, retryable)
	}
}

func (r *Relay) processEntries(ctx context.Context, entries []*shared.OutboxEntry) {
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	claimed, err := r.repo.MarkProcessing(ctx, ids)
	if err != nil {
		r.logger.Error("Failed to claim sync jobs", zap.Error(err))
		return
	}

	for _, entry := range claimed {
		r.processEntry(ctx, entry)
	}
}

func (r *Relay) processEntry(ctx context.Context, entry *shared.OutboxEntry) {
	if err := r.execute(ctx, entry); err != nil {
		r.logger.Warn("Sync job failed",
			zap.String("entry_id", entry.ID.String()),
			zap.String("channel_id", entry.ChannelID.String()),
			zap.String("connector", entry.Connector),
			zap.Error(err),
		)
		entry.MarkFailed(err.Error())
		if entry.IsDead() {
			r.logger.Error("Sync job moved to dead letter",
				zap.String("entry_id", entry.ID.String()),
				zap.String("channel_id", entry.ChannelID.String()),
				zap.Int("retry_count", entry.RetryCount),
				zap.String("last_error", entry.LastError),
			)
		}
		if updateErr := r.repo.Update(ctx, entry); updateErr != nil {
			r.logger.Error("Failed to update sync job", zap.Error(updateErr))
		}
		return
	}

	entry.MarkSent()
	if err := r.repo.Update(ctx, entry); err != nil {
		r.logger.Error("Failed to mark sync job as sent",
			zap.String("entry_id", entry.ID.String()),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("Sync job sent", zap.String("entry_id", entry.ID.String()))
}

func (r *Relay) execute(ctx context.Context, entry *shared.OutboxEntry) error {
	var job integration.ExportJob
	if err := json.Unmarshal(entry.Payload, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	return r.handler.Handle(ctx, job)
}

func (r *Relay) cleanupLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.cleanup(ctx)
		}
	}
}

// cleanup removes sent entries older than the retention
func (r *Relay) cleanup(ctx context.Context) {
	cutoff := time.Now().Add(-r.config.CleanupRetention)
	deleted, err := r.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("Failed to clean up sync outbox", zap.Error(err))
		return
	}

	if deleted > 0 {
		r.logger.Info("Cleaned up sync outbox",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
