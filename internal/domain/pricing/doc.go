// Package pricing contains the Pricing bounded context: products, the sales
// channels they are offered in, and the two price variants that compete for a
// product in a channel.
//
// A ProductPrice is the product-wide default for a currency. A ChannelPrice
// overrides it for one sales channel. ResolveFinalPrice applies that precedence.
package pricing
