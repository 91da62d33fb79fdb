package models

import (
	"github.com/erp/pricesync/internal/domain/integration"
)

// IntegrationChannelModel is the persistence model for integration channels
type IntegrationChannelModel struct {
	BaseModel
	Name                     string                  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Type                     integration.ChannelType `gorm:"type:varchar(50);not null;index"`
	Enabled                  bool                    `gorm:"not null;default:true"`
	BidirectionalSyncEnabled bool                    `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (IntegrationChannelModel) TableName() string {
	return "integration_channels"
}

// ToDomain converts the persistence model to a domain IntegrationChannel
func (m *IntegrationChannelModel) ToDomain() *integration.IntegrationChannel {
	return &integration.IntegrationChannel{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Type:       m.Type,
		Enabled:    m.Enabled,
		SyncSettings: integration.SyncSettings{
			BidirectionalSyncEnabled: m.BidirectionalSyncEnabled,
		},
	}
}

// FromDomain populates the persistence model from a domain IntegrationChannel
func (m *IntegrationChannelModel) FromDomain(c *integration.IntegrationChannel) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Name = c.Name
	m.Type = c.Type
	m.Enabled = c.Enabled
	m.BidirectionalSyncEnabled = c.SyncSettings.BidirectionalSyncEnabled
}

// IntegrationChannelModelFromDomain creates a new persistence model from a domain IntegrationChannel
func IntegrationChannelModelFromDomain(c *integration.IntegrationChannel) *IntegrationChannelModel {
	m := &IntegrationChannelModel{}
	m.FromDomain(c)
	return m
}
