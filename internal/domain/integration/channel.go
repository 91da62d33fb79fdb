package integration

import (
	"errors"

	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/google/uuid"
)

var (
	ErrChannelInvalidName = errors.New("integration: invalid channel name")
	ErrChannelInvalidType = errors.New("integration: invalid channel type")
)

// ChannelType identifies the kind of remote system an integration channel talks to
type ChannelType string

// ChannelTypeCommerce is the storefront integration that accepts price exports
const ChannelTypeCommerce ChannelType = "commerce"

// String returns the string representation of ChannelType
func (t ChannelType) String() string {
	return string(t)
}

// SyncSettings holds per-channel synchronization options
type SyncSettings struct {
	// BidirectionalSyncEnabled allows local edits to be pushed back to the remote system
	BidirectionalSyncEnabled bool `json:"bidirectional_sync_enabled"`
}

// IntegrationChannel is an external system endpoint capable of receiving synchronized data
type IntegrationChannel struct {
	shared.BaseEntity
	Name         string
	Type         ChannelType
	Enabled      bool
	SyncSettings SyncSettings
}

// NewIntegrationChannel creates an enabled integration channel with sync turned off
func NewIntegrationChannel(name string, channelType ChannelType) (*IntegrationChannel, error) {
	if name == "" {
		return nil, ErrChannelInvalidName
	}
	if channelType == "" {
		return nil, ErrChannelInvalidType
	}
	return &IntegrationChannel{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Type:       channelType,
		Enabled:    true,
	}, nil
}

// AcceptsReverseSync reports whether local changes may be pushed to this channel.
// All three conditions must hold: matching type, enabled, bidirectional sync on.
func (c *IntegrationChannel) AcceptsReverseSync(expected ChannelType) bool {
	if c == nil {
		return false
	}
	return c.Type == expected && c.Enabled && c.SyncSettings.BidirectionalSyncEnabled
}

// Enable enables the channel
func (c *IntegrationChannel) Enable() {
	c.Enabled = true
	c.Touch()
}

// Disable disables the channel
func (c *IntegrationChannel) Disable() {
	c.Enabled = false
	c.Touch()
}

// SameAs compares channels by identity
func (c *IntegrationChannel) SameAs(other *IntegrationChannel) bool {
	if c == nil || other == nil {
		return false
	}
	return c == other || (c.ID != uuid.Nil && c.ID == other.ID)
}
