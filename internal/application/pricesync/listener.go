package pricesync

import (
	"context"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"go.uber.org/zap"
)

// Settings configures which channels receive price exports and how jobs are tagged
type Settings struct {
	ChannelType integration.ChannelType
	Connector   string
}

// DefaultSettings returns settings for the commerce storefront integration
func DefaultSettings() Settings {
	return Settings{
		ChannelType: integration.ChannelTypeCommerce,
		Connector:   integration.ConnectorPriceExport,
	}
}

// Listener runs reverse price sync when a unit of work commits
type Listener struct {
	gate        shared.ActorGate
	filter      *PriceCandidateFilter
	resolver    *IntegrationChannelResolver
	scheduler   integration.JobScheduler
	externalIDs integration.ExternalIDReader
	connector   string
	logger      *zap.Logger
}

// NewListener creates a commit listener
func NewListener(gate shared.ActorGate, scheduler integration.JobScheduler, settings Settings, logger *zap.Logger) *Listener {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.ChannelType == "" {
		settings.ChannelType = integration.ChannelTypeCommerce
	}
	return &Listener{
		gate:      gate,
		filter:    NewPriceCandidateFilter(NewEntityDiffInspector()),
		resolver:  NewIntegrationChannelResolver(settings.ChannelType),
		scheduler: scheduler,
		connector: settings.Connector,
		logger:    logger,
	}
}

// WithExternalIDReader sets the store consulted to choose between create and update
func (l *Listener) WithExternalIDReader(reader integration.ExternalIDReader) *Listener {
	l.externalIDs = reader
	return l
}

// OnCommit implements shared.CommitHook. Changes not made by an authenticated
// actor are ignored, which keeps inbound sync from echoing back out.
func (l *Listener) OnCommit(ctx context.Context, tx shared.TransactionInspector) error {
	if l.gate == nil || !l.gate.IsAuthenticated(ctx) {
		return nil
	}

	inserted := tx.ScheduledInsertions()
	updated := tx.ScheduledUpdates()
	entities := make([]shared.Entity, 0, len(inserted)+len(updated))
	entities = append(entities, inserted...)
	entities = append(entities, updated...)

	candidates := l.filter.Filter(tx, entities)
	if len(candidates) == 0 {
		return nil
	}

	coordinator := NewDispatchCoordinator(l.resolver, l.scheduler, l.logger).
		WithConnector(l.connector).
		WithExternalIDReader(l.externalIDs)

	result, err := coordinator.Dispatch(ctx, candidates)
	l.logger.Debug("reverse price sync finished",
		zap.Int("candidates", len(candidates)),
		zap.Int("submitted", result.Submitted),
		zap.Int("failed", result.Failed),
		zap.Int("skipped", result.Skipped),
	)
	return err
}

var _ shared.CommitHook = (*Listener)(nil)
