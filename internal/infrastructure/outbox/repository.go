package outbox

import (
	"context"
	"time"

	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/erp/pricesync/internal/infrastructure/persistence"
	"github.com/erp/pricesync/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOutboxRepository implements shared.OutboxRepository using GORM.
// Writes join the transaction stored in the context, if any.
type GormOutboxRepository struct {
	db *gorm.DB
}

// NewGormOutboxRepository creates a new GORM-based outbox repository
func NewGormOutboxRepository(db *gorm.DB) *GormOutboxRepository {
	return &GormOutboxRepository{db: db}
}

// Save persists one or more outbox entries. Inside a running transaction the
// insert gets its own savepoint, so a failed insert leaves the outer
// transaction usable.
func (r *GormOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]*models.OutboxEntryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.OutboxEntryModelFromDomain(e)
	}

	return persistence.DBFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(rows).Error
	})
}

// FindPending retrieves pending entries up to the specified limit
func (r *GormOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	var rows []*models.OutboxEntryModel
	err := r.db.WithContext(ctx).
		Where("status = ?", shared.OutboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return toDomain(rows), err
}

// FindRetryable retrieves failed entries that are due for retry
func (r *GormOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	var rows []*models.OutboxEntryModel
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_retry_at <= ?", shared.OutboxStatusFailed, before).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&rows).Error
	return toDomain(rows), err
}

// MarkProcessing claims entries with FOR UPDATE SKIP LOCKED so concurrent
// relays never pick up the same job
func (r *GormOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []*models.OutboxEntryModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
				Options:  "SKIP LOCKED",
			}).
			Where("id IN ? AND status IN ?", ids, []shared.OutboxStatus{
				shared.OutboxStatusPending,
				shared.OutboxStatusFailed,
			}).
			Find(&rows).Error; err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		claimed := make([]uuid.UUID, len(rows))
		for i, row := range rows {
			claimed[i] = row.ID
		}

		now := time.Now()
		if err := tx.Model(&models.OutboxEntryModel{}).
			Where("id IN ?", claimed).
			Updates(map[string]any{
				"status":     shared.OutboxStatusProcessing,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		for _, row := range rows {
			row.Status = shared.OutboxStatusProcessing
			row.UpdatedAt = now
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toDomain(rows), nil
}

// Update updates an existing outbox entry
func (r *GormOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	entry.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(models.OutboxEntryModelFromDomain(entry)).Error
}

// DeleteOlderThan deletes sent entries processed before the given time
func (r *GormOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", shared.OutboxStatusSent, before).
		Delete(&models.OutboxEntryModel{})
	return result.RowsAffected, result.Error
}

// CountByStatus returns the number of entries per status
func (r *GormOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	type statusCount struct {
		Status shared.OutboxStatus
		Count  int64
	}

	var results []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.OutboxEntryModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[shared.OutboxStatus]int64)
	for _, c := range results {
		counts[c.Status] = c.Count
	}
	return counts, nil
}

func toDomain(rows []*models.OutboxEntryModel) []*shared.OutboxEntry {
	entries := make([]*shared.OutboxEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.ToDomain()
	}
	return entries
}

var _ shared.OutboxRepository = (*GormOutboxRepository)(nil)
