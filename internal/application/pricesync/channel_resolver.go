package pricesync

import (
	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/pricing"
)

// IntegrationChannelResolver finds the integration channels a price may be exported to
type IntegrationChannelResolver struct {
	channelType integration.ChannelType
}

// NewIntegrationChannelResolver creates a resolver accepting channels of the given type
func NewIntegrationChannelResolver(channelType integration.ChannelType) *IntegrationChannelResolver {
	return &IntegrationChannelResolver{channelType: channelType}
}

// Resolve returns the eligible channels for a price. A channel price reaches at
// most the channel its sales channel is linked to; a product price reaches every
// eligible channel the product is sold through, each once.
func (r *IntegrationChannelResolver) Resolve(price *pricing.Price) []*integration.IntegrationChannel {
	if price == nil {
		return nil
	}

	if price.IsChannelPrice() {
		if price.SalesChannel == nil {
			return nil
		}
		channel := price.SalesChannel.IntegrationChannel
		if !channel.AcceptsReverseSync(r.channelType) {
			return nil
		}
		return []*integration.IntegrationChannel{channel}
	}

	if price.Product == nil {
		return nil
	}
	var channels []*integration.IntegrationChannel
	for _, salesChannel := range price.Product.SalesChannels {
		channel := salesChannel.IntegrationChannel
		if !channel.AcceptsReverseSync(r.channelType) || containsChannel(channels, channel) {
			continue
		}
		channels = append(channels, channel)
	}
	return channels
}

func containsChannel(channels []*integration.IntegrationChannel, channel *integration.IntegrationChannel) bool {
	for _, existing := range channels {
		if existing.SameAs(channel) {
			return true
		}
	}
	return false
}
