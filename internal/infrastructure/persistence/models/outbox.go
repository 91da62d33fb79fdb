package models

import (
	"time"

	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/google/uuid"
)

// OutboxEntryModel is the persistence model for sync jobs waiting in the outbox
type OutboxEntryModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ChannelID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Connector   string              `gorm:"type:varchar(50);not null"`
	Payload     []byte              `gorm:"type:jsonb;not null"`
	Status      shared.OutboxStatus `gorm:"type:varchar(20);default:'PENDING';index:idx_sync_outbox_status_created,priority:1"`
	RetryCount  int                 `gorm:"default:0"`
	MaxRetries  int                 `gorm:"default:5"`
	LastError   string              `gorm:"type:text"`
	NextRetryAt *time.Time          `gorm:"index:idx_sync_outbox_next_retry"`
	ProcessedAt *time.Time
	CreatedAt   time.Time `gorm:"not null;index:idx_sync_outbox_status_created,priority:2"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OutboxEntryModel) TableName() string {
	return "sync_outbox"
}

// ToDomain converts the persistence model to a domain OutboxEntry
func (m *OutboxEntryModel) ToDomain() *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:          m.ID,
		ChannelID:   m.ChannelID,
		Connector:   m.Connector,
		Payload:     m.Payload,
		Status:      m.Status,
		RetryCount:  m.RetryCount,
		MaxRetries:  m.MaxRetries,
		LastError:   m.LastError,
		NextRetryAt: m.NextRetryAt,
		ProcessedAt: m.ProcessedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain OutboxEntry
func (m *OutboxEntryModel) FromDomain(e *shared.OutboxEntry) {
	m.ID = e.ID
	m.ChannelID = e.ChannelID
	m.Connector = e.Connector
	m.Payload = e.Payload
	m.Status = e.Status
	m.RetryCount = e.RetryCount
	m.MaxRetries = e.MaxRetries
	m.LastError = e.LastError
	m.NextRetryAt = e.NextRetryAt
	m.ProcessedAt = e.ProcessedAt
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// OutboxEntryModelFromDomain creates a new persistence model from a domain OutboxEntry
func OutboxEntryModelFromDomain(e *shared.OutboxEntry) *OutboxEntryModel {
	m := &OutboxEntryModel{}
	m.FromDomain(e)
	return m
}
