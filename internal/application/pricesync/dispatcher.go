package pricesync

import (
	"context"
	"fmt"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/pricing"
	"go.uber.org/zap"
)

// DispatchResult counts what one dispatch pass did
type DispatchResult struct {
	// Submitted is the number of jobs the scheduler accepted
	Submitted int
	// Failed is the number of jobs that could not be submitted
	Failed int
	// Skipped is the number of candidates that produced no submission attempt
	Skipped int
}

// Add merges another result into r
func (r *DispatchResult) Add(other DispatchResult) {
	r.Submitted += other.Submitted
	r.Failed += other.Failed
	r.Skipped += other.Skipped
}

// DispatchCoordinator exports candidate prices to their eligible channels.
// A coordinator remembers what it dispatched and must not outlive one commit.
type DispatchCoordinator struct {
	resolver    *IntegrationChannelResolver
	scheduler   integration.JobScheduler
	externalIDs integration.ExternalIDReader
	connector   string
	logger      *zap.Logger

	processed map[*pricing.Price]struct{}
}

// NewDispatchCoordinator creates a coordinator with an empty processed set
func NewDispatchCoordinator(
	resolver *IntegrationChannelResolver,
	scheduler integration.JobScheduler,
	logger *zap.Logger,
) *DispatchCoordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispatchCoordinator{
		resolver:  resolver,
		scheduler: scheduler,
		connector: integration.ConnectorPriceExport,
		logger:    logger,
		processed: make(map[*pricing.Price]struct{}),
	}
}

// WithExternalIDReader reads external ids from reader instead of the loaded product
func (c *DispatchCoordinator) WithExternalIDReader(reader integration.ExternalIDReader) *DispatchCoordinator {
	c.externalIDs = reader
	return c
}

// WithConnector overrides the connector tag submitted with each job
func (c *DispatchCoordinator) WithConnector(connector string) *DispatchCoordinator {
	if connector != "" {
		c.connector = connector
	}
	return c
}

// Dispatch processes candidates in order. Submission failures are logged and
// counted; a failing external id lookup aborts the pass.
func (c *DispatchCoordinator) Dispatch(ctx context.Context, candidates []*pricing.Price) (DispatchResult, error) {
	var result DispatchResult
	for _, candidate := range candidates {
		r, err := c.dispatchOne(ctx, candidate)
		result.Add(r)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// Processed reports whether the price was already dispatched by this coordinator
func (c *DispatchCoordinator) Processed(price *pricing.Price) bool {
	_, ok := c.processed[price]
	return ok
}

func (c *DispatchCoordinator) dispatchOne(ctx context.Context, price *pricing.Price) (DispatchResult, error) {
	var result DispatchResult
	if c.Processed(price) {
		result.Skipped++
		return result, nil
	}

	channels := c.resolver.Resolve(price)
	if len(channels) == 0 {
		result.Skipped++
		return result, nil
	}

	product := price.Product
	attempted := false
	for _, channel := range channels {
		salesChannel := product.SalesChannelFor(channel)
		if salesChannel == nil {
			continue
		}
		if pricing.ResolveFinalPrice(product, salesChannel) != price {
			c.logger.Debug("price is not final for channel",
				zap.String("sku", product.SKU),
				zap.String("kind", string(price.Kind)),
				zap.String("channel_id", channel.ID.String()),
			)
			continue
		}

		action, err := c.actionFor(ctx, product, channel)
		if err != nil {
			return result, err
		}

		payload := integration.PriceExportPayload{
			EntityKind: price.EntityKind(),
			Action:     action,
			SKUFilter:  product.SKU,
			Value:      price.Value,
			Currency:   price.Currency,
			ProductID:  product.ID,
		}
		if err := payload.Validate(); err != nil {
			c.logger.Warn("invalid price export payload",
				zap.String("sku", product.SKU),
				zap.String("channel_id", channel.ID.String()),
				zap.Error(err),
			)
			result.Failed++
			continue
		}

		attempted = true
		if err := c.scheduler.Schedule(ctx, channel.ID, c.connector, payload); err != nil {
			c.logger.Warn("failed to schedule price export",
				zap.String("sku", product.SKU),
				zap.String("channel_id", channel.ID.String()),
				zap.String("action", action.String()),
				zap.Error(err),
			)
			result.Failed++
			continue
		}

		c.logger.Info("price export scheduled",
			zap.String("sku", product.SKU),
			zap.String("kind", string(price.Kind)),
			zap.String("currency", price.Currency),
			zap.String("channel_id", channel.ID.String()),
			zap.String("action", action.String()),
		)
		result.Submitted++
	}

	// a candidate joins the processed set only once a submission was made
	if attempted {
		c.processed[price] = struct{}{}
	} else if result.Failed == 0 {
		result.Skipped++
	}
	return result, nil
}

func (c *DispatchCoordinator) actionFor(ctx context.Context, product *pricing.Product, channel *integration.IntegrationChannel) (integration.ExportAction, error) {
	var found bool
	if c.externalIDs != nil {
		var err error
		_, found, err = c.externalIDs.FindExternalID(ctx, product.ID, channel.ID)
		if err != nil {
			return "", fmt.Errorf("find external id for product %s on channel %s: %w", product.SKU, channel.ID, err)
		}
	} else {
		_, found = product.ExternalIDs.Lookup(channel.ID)
	}

	if found {
		return integration.ExportActionUpdate, nil
	}
	return integration.ExportActionCreate, nil
}
