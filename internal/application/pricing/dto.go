package pricing

import (
	"time"

	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SetPriceRequest sets the value of a price, creating it when missing
type SetPriceRequest struct {
	Currency string          `json:"currency" binding:"required,len=3"`
	Value    decimal.Decimal `json:"value"`
}

// PriceResponse represents a price in API responses
type PriceResponse struct {
	ID           uuid.UUID       `json:"id"`
	Kind         string          `json:"kind"`
	SKU          string          `json:"sku"`
	SalesChannel string          `json:"sales_channel,omitempty"`
	Currency     string          `json:"currency"`
	Value        decimal.Decimal `json:"value"`
	Created      bool            `json:"created"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ToPriceResponse converts a domain price to a response DTO
func ToPriceResponse(price *pricing.Price, created bool) PriceResponse {
	resp := PriceResponse{
		ID:        price.ID,
		Kind:      string(price.Kind),
		Currency:  price.Currency,
		Value:     price.Value,
		Created:   created,
		UpdatedAt: price.UpdatedAt,
	}
	if price.Product != nil {
		resp.SKU = price.Product.SKU
	}
	if price.SalesChannel != nil {
		resp.SalesChannel = price.SalesChannel.Code
	}
	return resp
}
