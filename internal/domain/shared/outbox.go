package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus represents the status of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

// Default retry configuration
const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
)

// OutboxEntry is a sync job stored in the same transaction as the change that produced it.
// A relay picks it up after commit and hands it to the job executor.
type OutboxEntry struct {
	ID          uuid.UUID
	ChannelID   uuid.UUID
	Connector   string
	Payload     []byte
	Status      OutboxStatus
	RetryCount  int
	MaxRetries  int
	LastError   string
	NextRetryAt *time.Time
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOutboxEntry creates a pending outbox entry for a channel job
func NewOutboxEntry(channelID uuid.UUID, connector string, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:         uuid.New(),
		ChannelID:  channelID,
		Connector:  connector,
		Payload:    payload,
		Status:     OutboxStatusPending,
		MaxRetries: DefaultMaxRetries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CanRetry returns true if the entry can be retried
func (e *OutboxEntry) CanRetry() bool {
	return e.Status == OutboxStatusFailed && e.RetryCount < e.MaxRetries
}

// MarkProcessing marks the entry as being processed
func (e *OutboxEntry) MarkProcessing() error {
	if e.Status != OutboxStatusPending && e.Status != OutboxStatusFailed {
		return errors.New("can only mark pending or failed entries as processing")
	}
	e.Status = OutboxStatusProcessing
	e.UpdatedAt = time.Now()
	return nil
}

// MarkSent marks the entry as successfully handed over
func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.Status = OutboxStatusSent
	e.ProcessedAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a failure and computes the next retry time.
// The entry goes dead once MaxRetries is reached.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = time.Now()

	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		e.NextRetryAt = nil
		return
	}

	e.Status = OutboxStatusFailed
	// 1s, 2s, 4s, 8s, ...
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(e.RetryCount-1))
	nextRetry := time.Now().Add(backoff)
	e.NextRetryAt = &nextRetry
}

// IsDead returns true if the entry is in dead letter status
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// OutboxRepository defines the interface for outbox persistence
type OutboxRepository interface {
	// Save persists one or more outbox entries
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindPending retrieves pending entries up to the specified limit
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable retrieves failed entries that are due for retry
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	// MarkProcessing atomically claims entries and returns the ones it claimed
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	// Update updates an existing outbox entry
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteOlderThan deletes sent entries processed before the given time
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}
