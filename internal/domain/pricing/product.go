package pricing

import (
	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item identified remotely by its SKU
type Product struct {
	shared.BaseEntity
	SKU           string
	Name          string
	SalesChannels []*SalesChannel
	Prices        []*Price
	ChannelPrices []*Price
	// ExternalIDs holds the remote price record id per integration channel
	ExternalIDs integration.ExternalIDs
}

// NewProduct creates a product with no channels and no prices
func NewProduct(sku, name string) (*Product, error) {
	if sku == "" {
		return nil, ErrInvalidSKU
	}
	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		SKU:         sku,
		Name:        name,
		ExternalIDs: make(integration.ExternalIDs),
	}, nil
}

// AddSalesChannel offers the product in a sales channel. Adding twice is a no-op.
func (p *Product) AddSalesChannel(channel *SalesChannel) {
	for _, existing := range p.SalesChannels {
		if existing.SameAs(channel) {
			return
		}
	}
	p.SalesChannels = append(p.SalesChannels, channel)
}

// AddPrice creates the product-wide price for a currency
func (p *Product) AddPrice(currency string, value decimal.Decimal) (*Price, error) {
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	if value.IsNegative() {
		return nil, ErrNegativeValue
	}
	if p.Price(currency) != nil {
		return nil, ErrDuplicatePrice
	}

	price := &Price{
		BaseEntity: shared.NewBaseEntity(),
		Kind:       PriceKindProduct,
		Product:    p,
		Currency:   currency,
		Value:      value,
	}
	p.Prices = append(p.Prices, price)
	return price, nil
}

// AddChannelPrice creates the override price for a sales channel the product is offered in
func (p *Product) AddChannelPrice(channel *SalesChannel, currency string, value decimal.Decimal) (*Price, error) {
	if channel == nil {
		return nil, ErrSalesChannelRequired
	}
	if !p.OfferedIn(channel) {
		return nil, ErrSalesChannelNotOffered
	}
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	if value.IsNegative() {
		return nil, ErrNegativeValue
	}
	if p.SalesChannelPrice(channel) != nil {
		return nil, ErrDuplicatePrice
	}

	price := &Price{
		BaseEntity:   shared.NewBaseEntity(),
		Kind:         PriceKindChannel,
		Product:      p,
		SalesChannel: channel,
		Currency:     currency,
		Value:        value,
	}
	p.ChannelPrices = append(p.ChannelPrices, price)
	return price, nil
}

// OfferedIn reports whether the product is sold in the sales channel
func (p *Product) OfferedIn(channel *SalesChannel) bool {
	for _, existing := range p.SalesChannels {
		if existing.SameAs(channel) {
			return true
		}
	}
	return false
}

// Price returns the product-wide price for a currency, or nil
func (p *Product) Price(currency string) *Price {
	for _, price := range p.Prices {
		if price.Currency == currency {
			return price
		}
	}
	return nil
}

// SalesChannelPrice returns the override price for a sales channel, or nil
func (p *Product) SalesChannelPrice(channel *SalesChannel) *Price {
	for _, price := range p.ChannelPrices {
		if price.SalesChannel.SameAs(channel) {
			return price
		}
	}
	return nil
}

// SalesChannelFor returns the product's sales channel linked to the integration channel, or nil
func (p *Product) SalesChannelFor(channel *integration.IntegrationChannel) *SalesChannel {
	for _, salesChannel := range p.SalesChannels {
		if salesChannel.IntegrationChannel.SameAs(channel) {
			return salesChannel
		}
	}
	return nil
}

// SalesChannelByCode finds a sales channel of the product by its code
func (p *Product) SalesChannelByCode(code string) *SalesChannel {
	for _, salesChannel := range p.SalesChannels {
		if salesChannel.Code == code {
			return salesChannel
		}
	}
	return nil
}
