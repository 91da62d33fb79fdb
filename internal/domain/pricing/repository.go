package pricing

import "context"

// ProductRepository loads products together with everything price resolution
// needs: sales channels, their integration channels, all prices and external ids
type ProductRepository interface {
	// FindBySKU returns ErrProductNotFound when no product has the SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)
}
