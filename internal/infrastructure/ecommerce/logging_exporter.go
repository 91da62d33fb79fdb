package ecommerce

import (
	"context"
	"fmt"

	"github.com/erp/pricesync/internal/domain/integration"
	"go.uber.org/zap"
)

// LoggingExporter is the dry-run PriceExporter used when no storefront is
// configured. Creates get a local placeholder id so later changes select UPDATE.
type LoggingExporter struct {
	logger *zap.Logger
}

// NewLoggingExporter creates a new dry-run exporter
func NewLoggingExporter(logger *zap.Logger) *LoggingExporter {
	return &LoggingExporter{logger: logger}
}

// Export implements integration.PriceExporter
func (e *LoggingExporter) Export(ctx context.Context, job integration.ExportJob) (integration.ExportResult, error) {
	e.logger.Info("Price export (dry run)",
		zap.String("job_id", job.ID.String()),
		zap.String("channel_id", job.ChannelID.String()),
		zap.String("action", job.Payload.Action.String()),
		zap.String("entity_kind", string(job.Payload.EntityKind)),
		zap.String("sku_filter", job.Payload.SKUFilter),
		zap.String("value", job.Payload.Value.String()),
		zap.String("currency", job.Payload.Currency),
	)

	if job.Payload.Action == integration.ExportActionCreate {
		return integration.ExportResult{ExternalID: fmt.Sprintf("dry-run-%s", job.ID)}, nil
	}
	return integration.ExportResult{}, nil
}

var _ integration.PriceExporter = (*LoggingExporter)(nil)
