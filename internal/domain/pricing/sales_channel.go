package pricing

import (
	"github.com/google/uuid"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
)

// SalesChannel groups where and in which currency a product is sold.
// It is linked to at most one integration channel.
type SalesChannel struct {
	shared.BaseEntity
	Code               string
	Name               string
	Currency           string
	IntegrationChannel *integration.IntegrationChannel
}

// NewSalesChannel creates a sales channel without an integration link
func NewSalesChannel(code, name, currency string) (*SalesChannel, error) {
	if code == "" {
		return nil, ErrInvalidSalesChannel
	}
	if err := validateCurrency(currency); err != nil {
		return nil, err
	}
	return &SalesChannel{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Currency:   currency,
	}, nil
}

// LinkIntegration links the sales channel to an integration channel, replacing any previous link
func (s *SalesChannel) LinkIntegration(channel *integration.IntegrationChannel) {
	s.IntegrationChannel = channel
	s.Touch()
}

// SameAs compares sales channels by identity
func (s *SalesChannel) SameAs(other *SalesChannel) bool {
	if s == nil || other == nil {
		return false
	}
	return s == other || (s.ID != uuid.Nil && s.ID == other.ID)
}
