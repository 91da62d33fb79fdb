package pricing

// ResolveFinalPrice returns the price that is authoritative for a product in a
// sales channel: the channel override when one exists, otherwise the
// product-wide price in the channel's currency. It returns nil when neither exists.
func ResolveFinalPrice(product *Product, channel *SalesChannel) *Price {
	if product == nil || channel == nil {
		return nil
	}
	if price := product.SalesChannelPrice(channel); price != nil {
		return price
	}
	return product.Price(channel.Currency)
}
