package pricesync

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fakeTx is an in-memory TransactionInspector
type fakeTx struct {
	inserted []shared.Entity
	updated  []shared.Entity
	changes  map[shared.Entity]shared.ChangeSet
}

func newFakeTx() *fakeTx {
	return &fakeTx{changes: make(map[shared.Entity]shared.ChangeSet)}
}

func (t *fakeTx) insert(entities ...shared.Entity) *fakeTx {
	t.inserted = append(t.inserted, entities...)
	return t
}

func (t *fakeTx) update(entity shared.Entity, changes shared.ChangeSet) *fakeTx {
	t.updated = append(t.updated, entity)
	t.changes[entity] = changes
	return t
}

func (t *fakeTx) ScheduledInsertions() []shared.Entity { return t.inserted }
func (t *fakeTx) ScheduledUpdates() []shared.Entity { return t.updated }
func (t *fakeTx) EntityChangeSet(entity shared.Entity) shared.ChangeSet {
	return t.changes[entity]
}

// scheduledJob is one recorded Schedule call
type scheduledJob struct {
	ChannelID uuid.UUID
	Connector string
	Payload   integration.PriceExportPayload
}

// recordingScheduler records every submission and fails for channels listed in failFor
type recordingScheduler struct {
	jobs    []scheduledJob
	failFor map[uuid.UUID]bool
}

func (s *recordingScheduler) Schedule(ctx context.Context, channelID uuid.UUID, connector string, payload integration.PriceExportPayload) error {
	s.jobs = append(s.jobs, scheduledJob{ChannelID: channelID, Connector: connector, Payload: payload})
	if s.failFor[channelID] {
		return errors.New("queue unavailable")
	}
	return nil
}

// MockExternalIDReader is a mock implementation of integration.ExternalIDReader
type MockExternalIDReader struct {
	mock.Mock
}

func (m *MockExternalIDReader) FindExternalID(ctx context.Context, productID, channelID uuid.UUID) (string, bool, error) {
	args := m.Called(ctx, productID, channelID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// catalog is a small product graph: one product sold through two sales
// channels, each linked to its own eligible storefront
type catalog struct {
	product   *pricing.Product
	web       *pricing.SalesChannel
	shop      *pricing.SalesChannel
	webFront  *integration.IntegrationChannel
	shopFront *integration.IntegrationChannel
	usd       *pricing.Price
}

func newEligibleChannel(t *testing.T, name string) *integration.IntegrationChannel {
	t.Helper()
	channel, err := integration.NewIntegrationChannel(name, integration.ChannelTypeCommerce)
	require.NoError(t, err)
	channel.SyncSettings.BidirectionalSyncEnabled = true
	return channel
}

func newSalesChannel(t *testing.T, code string, link *integration.IntegrationChannel) *pricing.SalesChannel {
	t.Helper()
	channel, err := pricing.NewSalesChannel(code, code, "USD")
	require.NoError(t, err)
	if link != nil {
		channel.LinkIntegration(link)
	}
	return channel
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	c := &catalog{
		webFront:  newEligibleChannel(t, "web storefront"),
		shopFront: newEligibleChannel(t, "shop storefront"),
	}
	c.web = newSalesChannel(t, "web", c.webFront)
	c.shop = newSalesChannel(t, "shop", c.shopFront)

	product, err := pricing.NewProduct("SKU-1", "Chair")
	require.NoError(t, err)
	product.AddSalesChannel(c.web)
	product.AddSalesChannel(c.shop)
	c.product = product

	c.usd, err = product.AddPrice("USD", dec("10"))
	require.NoError(t, err)
	return c
}

func (c *catalog) addChannelPrice(t *testing.T, channel *pricing.SalesChannel, value string) *pricing.Price {
	t.Helper()
	price, err := c.product.AddChannelPrice(channel, "USD", dec(value))
	require.NoError(t, err)
	return price
}
