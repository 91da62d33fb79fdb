package pricesync

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"go.uber.org/zap"
)

// ExportHandler executes price export jobs and records the remote id the
// channel assigns on create, so the next change of the same product updates
// instead of creating again.
type ExportHandler struct {
	exporter     integration.PriceExporter
	writer       integration.ExternalIDWriter
	processed    shared.IdempotencyStore
	processedTTL time.Duration
	logger       *zap.Logger
}

// NewExportHandler creates an export handler
func NewExportHandler(exporter integration.PriceExporter, writer integration.ExternalIDWriter, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{
		exporter: exporter,
		writer:   writer,
		logger:   logger,
	}
}

// WithIdempotency makes the handler skip jobs it already completed. Brokers
// and the outbox relay deliver at least once, so a job can come back after
// its export succeeded.
func (h *ExportHandler) WithIdempotency(store shared.IdempotencyStore, ttl time.Duration) *ExportHandler {
	h.processed = store
	h.processedTTL = ttl
	return h
}

// Handle implements integration.ExportJobHandler
func (h *ExportHandler) Handle(ctx context.Context, job integration.ExportJob) error {
	if err := job.Payload.Validate(); err != nil {
		return err
	}
	if h.alreadyDone(ctx, job) {
		return nil
	}

	if err := h.export(ctx, job); err != nil {
		return err
	}

	h.markDone(ctx, job)
	return nil
}

func (h *ExportHandler) export(ctx context.Context, job integration.ExportJob) error {
	result, err := h.exporter.Export(ctx, job)
	if err != nil {
		return fmt.Errorf("%w: job %s: %v", integration.ErrExportFailed, job.ID, err)
	}

	if job.Payload.Action != integration.ExportActionCreate || result.ExternalID == "" || h.writer == nil {
		return nil
	}

	if err := h.writer.SaveExternalID(ctx, job.Payload.ProductID, job.ChannelID, result.ExternalID); err != nil {
		return fmt.Errorf("save external id for %s: %w", job.Payload.SKUFilter, err)
	}

	h.logger.Info("external id recorded",
		zap.String("sku", job.Payload.SKUFilter),
		zap.String("channel_id", job.ChannelID.String()),
		zap.String("external_id", result.ExternalID),
	)
	return nil
}

// alreadyDone fails open: a store error runs the job again
func (h *ExportHandler) alreadyDone(ctx context.Context, job integration.ExportJob) bool {
	if h.processed == nil {
		return false
	}
	done, err := h.processed.IsProcessed(ctx, job.ID.String())
	if err != nil {
		h.logger.Warn("export job ledger unavailable", zap.String("job_id", job.ID.String()), zap.Error(err))
		return false
	}
	if done {
		h.logger.Info("export job already completed, skipping",
			zap.String("job_id", job.ID.String()),
			zap.String("sku", job.Payload.SKUFilter),
		)
	}
	return done
}

func (h *ExportHandler) markDone(ctx context.Context, job integration.ExportJob) {
	if h.processed == nil {
		return
	}
	if _, err := h.processed.MarkProcessed(ctx, job.ID.String(), h.processedTTL); err != nil {
		h.logger.Warn("failed to record completed export job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

var _ integration.ExportJobHandler = (*ExportHandler)(nil)
