package pricing

import (
	"fmt"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PriceKind tags the price variant
type PriceKind string

const (
	// PriceKindProduct is the product-wide default price for a currency
	PriceKindProduct PriceKind = "ProductPrice"
	// PriceKindChannel is a sales-channel override
	PriceKindChannel PriceKind = "ChannelPrice"
)

// Tracked field names, as they appear in change sets
const (
	FieldValue    = "value"
	FieldCurrency = "currency"
)

// Price is a price record of either kind. Both kinds share value, currency and
// owning product; a channel price additionally belongs to one sales channel.
//
// Identity matters: within one loaded product graph each price slot is held by
// exactly one *Price, and precedence checks compare pointers.
type Price struct {
	shared.BaseEntity
	Kind         PriceKind
	Product      *Product
	SalesChannel *SalesChannel
	Currency     string
	Value        decimal.Decimal

	changes shared.ChangeSet
}

// IsChannelPrice reports whether the price is a sales-channel override
func (p *Price) IsChannelPrice() bool {
	return p.Kind == PriceKindChannel
}

// IsProductPrice reports whether the price is the product-wide default
func (p *Price) IsProductPrice() bool {
	return p.Kind == PriceKindProduct
}

// EntityKind returns the export label of the price variant
func (p *Price) EntityKind() integration.EntityKind {
	if p.IsChannelPrice() {
		return integration.EntityKindChannelPrice
	}
	return integration.EntityKindProductPrice
}

// SlotKey identifies the logical price slot: sku and currency, plus the sales
// channel for channel prices. Two pending changes with the same key describe
// the same slot.
func (p *Price) SlotKey() string {
	key := fmt.Sprintf("%s_%s", p.Product.SKU, p.Currency)
	if p.IsChannelPrice() && p.SalesChannel != nil {
		key = fmt.Sprintf("%s_%s", key, p.SalesChannel.ID)
	}
	return key
}

// ChangeValue sets a new value and records the change
func (p *Price) ChangeValue(value decimal.Decimal) error {
	if value.IsNegative() {
		return ErrNegativeValue
	}
	p.track(FieldValue, p.Value, value)
	p.Value = value
	p.Touch()
	return nil
}

// ChangeCurrency sets a new currency and records the change
func (p *Price) ChangeCurrency(currency string) error {
	if err := validateCurrency(currency); err != nil {
		return err
	}
	p.track(FieldCurrency, p.Currency, currency)
	p.Currency = currency
	p.Touch()
	return nil
}

// Changes returns a copy of the fields changed since load or last commit
func (p *Price) Changes() shared.ChangeSet {
	out := make(shared.ChangeSet, len(p.changes))
	for field, change := range p.changes {
		out[field] = change
	}
	return out
}

// ClearChanges forgets recorded changes
func (p *Price) ClearChanges() {
	p.changes = nil
}

// track keeps the value the field had when first touched as Old
func (p *Price) track(field string, from, to any) {
	if p.changes == nil {
		p.changes = make(shared.ChangeSet)
	}
	if existing, ok := p.changes[field]; ok {
		from = existing.Old
	}
	p.changes[field] = shared.FieldChange{Old: from, New: to}
}

var _ shared.ChangeTracked = (*Price)(nil)

func validateCurrency(currency string) error {
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}
