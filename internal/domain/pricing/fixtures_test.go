package pricing

import (
	"testing"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestProduct(t *testing.T, sku string) *Product {
	t.Helper()
	product, err := NewProduct(sku, "Test product")
	require.NoError(t, err)
	return product
}

func newTestSalesChannel(t *testing.T, code, currency string) *SalesChannel {
	t.Helper()
	channel, err := NewSalesChannel(code, code, currency)
	require.NoError(t, err)
	return channel
}

func newTestIntegrationChannel(t *testing.T) *integration.IntegrationChannel {
	t.Helper()
	channel, err := integration.NewIntegrationChannel("storefront", integration.ChannelTypeCommerce)
	require.NoError(t, err)
	return channel
}
