package pricing

import "errors"

var (
	ErrInvalidSKU             = errors.New("pricing: invalid SKU")
	ErrInvalidCurrency        = errors.New("pricing: invalid currency code")
	ErrNegativeValue          = errors.New("pricing: price value cannot be negative")
	ErrDuplicatePrice         = errors.New("pricing: price already exists for this slot")
	ErrSalesChannelRequired   = errors.New("pricing: sales channel is required")
	ErrSalesChannelNotOffered = errors.New("pricing: product is not offered in this sales channel")
	ErrInvalidSalesChannel    = errors.New("pricing: invalid sales channel code")
	ErrProductNotFound        = errors.New("pricing: product not found")
	ErrSalesChannelNotFound   = errors.New("pricing: sales channel not found")
)
