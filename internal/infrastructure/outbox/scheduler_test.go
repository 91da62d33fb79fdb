package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/erp/pricesync/internal/infrastructure/persistence"
	"github.com/erp/pricesync/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.OutboxEntryModel{}))
	return db
}

func testPayload() integration.PriceExportPayload {
	return integration.PriceExportPayload{
		EntityKind: integration.EntityKindProductPrice,
		Action:     integration.ExportActionCreate,
		SKUFilter:  "SKU-1",
		Value:      decimal.NewFromInt(10),
		Currency:   "USD",
		ProductID:  uuid.New(),
	}
}

func countEntries(t *testing.T, db *gorm.DB) int64 {
	var count int64
	require.NoError(t, db.Model(&models.OutboxEntryModel{}).Count(&count).Error)
	return count
}

func TestScheduler_Schedule(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewGormOutboxRepository(db)
	scheduler := NewScheduler(repo, 3)
	ctx := context.Background()
	channelID := uuid.New()
	payload := testPayload()

	require.NoError(t, scheduler.Schedule(ctx, channelID, integration.ConnectorPriceExport, payload))

	entries, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, channelID, entries[0].ChannelID)
	assert.Equal(t, integration.ConnectorPriceExport, entries[0].Connector)
	assert.Equal(t, 3, entries[0].MaxRetries)

	var job integration.ExportJob
	require.NoError(t, json.Unmarshal(entries[0].Payload, &job))
	assert.Equal(t, channelID, job.ChannelID)
	assert.Equal(t, payload.SKUFilter, job.Payload.SKUFilter)
	assert.True(t, payload.Value.Equal(job.Payload.Value))
}

func TestScheduler_FollowsTheCommit(t *testing.T) {
	db := setupOutboxTestDB(t)
	scheduler := NewScheduler(NewGormOutboxRepository(db), 0)
	ctx := context.Background()

	t.Run("rolled back commit drops the job", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			txCtx := persistence.WithTx(ctx, tx)
			require.NoError(t, scheduler.Schedule(txCtx, uuid.New(), integration.ConnectorPriceExport, testPayload()))
			return errors.New("rollback")
		})
		require.Error(t, err)

		assert.Equal(t, int64(0), countEntries(t, db))
	})

	t.Run("committed job is stored", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			txCtx := persistence.WithTx(ctx, tx)
			return scheduler.Schedule(txCtx, uuid.New(), integration.ConnectorPriceExport, testPayload())
		})
		require.NoError(t, err)

		assert.Equal(t, int64(1), countEntries(t, db))
	})
}

func TestScheduler_DefaultMaxRetries(t *testing.T) {
	repo := newMockOutboxRepository()
	scheduler := NewScheduler(repo, 0)

	require.NoError(t, scheduler.Schedule(context.Background(), uuid.New(), integration.ConnectorPriceExport, testPayload()))

	require.Len(t, repo.entries, 1)
	for _, e := range repo.entries {
		assert.Equal(t, shared.DefaultMaxRetries, e.MaxRetries)
	}
}

func TestScheduler_SaveError(t *testing.T) {
	repo := newMockOutboxRepository()
	repo.saveErr = errors.New("disk full")
	scheduler := NewScheduler(repo, 0)

	err := scheduler.Schedule(context.Background(), uuid.New(), integration.ConnectorPriceExport, testPayload())

	require.Error(t, err)
	assert.ErrorIs(t, err, repo.saveErr)
}
