package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/erp/pricesync/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type otherEntity struct {
	id uuid.UUID
}

func (e *otherEntity) GetID() uuid.UUID { return e.id }

func countPrices(t *testing.T, c *seededCatalog) int64 {
	var count int64
	require.NoError(t, c.store.Model(&models.PriceModel{}).Count(&count).Error)
	return count
}

func TestGormUnitOfWork_HookSeesPendingWrites(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()
	factory := NewGormUnitOfWorkFactory(c.store, zap.NewNop())

	var (
		inserted    []shared.Entity
		updated     []shared.Entity
		insertedSet shared.ChangeSet
		updatedSet  shared.ChangeSet
		hadTx       bool
	)
	factory.RegisterHook(shared.CommitHookFunc(func(ctx context.Context, tx shared.TransactionInspector) error {
		inserted = tx.ScheduledInsertions()
		updated = tx.ScheduledUpdates()
		if len(inserted) > 0 {
			insertedSet = tx.EntityChangeSet(inserted[0])
		}
		if len(updated) > 0 {
			updatedSet = tx.EntityChangeSet(updated[0])
		}
		_, hadTx = TxFromContext(ctx)
		return nil
	}))

	override, err := c.product.AddChannelPrice(c.web, "USD", decimal.NewFromInt(8))
	require.NoError(t, err)
	require.NoError(t, c.usdPrice.ChangeValue(decimal.NewFromInt(12)))

	uow := factory.Begin()
	uow.RegisterNew(override)
	uow.RegisterDirty(c.usdPrice)
	require.NoError(t, uow.Commit(ctx))

	assert.True(t, hadTx)
	require.Len(t, inserted, 1)
	assert.Same(t, override, inserted[0])
	assert.NotNil(t, insertedSet)
	assert.Empty(t, insertedSet)

	require.Len(t, updated, 1)
	assert.Same(t, c.usdPrice, updated[0])
	require.True(t, updatedSet.Has(pricing.FieldValue))
	assert.True(t, updatedSet[pricing.FieldValue].Old.(decimal.Decimal).Equal(decimal.NewFromInt(10)))

	assert.Empty(t, c.usdPrice.Changes())

	product, err := c.repo.FindBySKU(ctx, "SKU-1")
	require.NoError(t, err)
	assert.True(t, product.Price("USD").Value.Equal(decimal.NewFromInt(12)))
	require.NotNil(t, product.SalesChannelPrice(product.SalesChannelByCode("web")))
}

func TestGormUnitOfWork_HookErrorRollsBack(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()
	factory := NewGormUnitOfWorkFactory(c.store, zap.NewNop())
	hookErr := errors.New("boom")
	factory.RegisterHook(shared.CommitHookFunc(func(context.Context, shared.TransactionInspector) error {
		return hookErr
	}))

	eur, err := c.product.AddPrice("EUR", decimal.NewFromInt(9))
	require.NoError(t, err)

	uow := factory.Begin()
	uow.RegisterNew(eur)
	err = uow.Commit(ctx)

	assert.ErrorIs(t, err, hookErr)
	assert.Equal(t, int64(1), countPrices(t, c))
}

func TestGormUnitOfWork_HookWritesShareTheTransaction(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()
	factory := NewGormUnitOfWorkFactory(c.store, zap.NewNop())
	ids := NewGormExternalIDRepository(c.store)
	factory.RegisterHook(shared.CommitHookFunc(func(ctx context.Context, _ shared.TransactionInspector) error {
		if err := ids.SaveExternalID(ctx, c.product.ID, c.front.ID, "remote-1"); err != nil {
			return err
		}
		return errors.New("abort")
	}))

	uow := factory.Begin()
	uow.RegisterDirty(c.usdPrice)
	require.Error(t, uow.Commit(ctx))

	_, ok, err := ids.FindExternalID(ctx, c.product.ID, c.front.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormUnitOfWork_Registration(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()

	var inserted, updated int
	factory := NewGormUnitOfWorkFactory(c.store, zap.NewNop())
	factory.RegisterHook(shared.CommitHookFunc(func(_ context.Context, tx shared.TransactionInspector) error {
		inserted = len(tx.ScheduledInsertions())
		updated = len(tx.ScheduledUpdates())
		return nil
	}))

	eur, err := c.product.AddPrice("EUR", decimal.NewFromInt(9))
	require.NoError(t, err)

	uow := factory.Begin()
	uow.RegisterNew(eur)
	uow.RegisterNew(eur)
	uow.RegisterDirty(eur)
	require.NoError(t, uow.Commit(ctx))

	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, updated)
	assert.Equal(t, int64(2), countPrices(t, c))
}

func TestGormUnitOfWork_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("second commit", func(t *testing.T) {
		c := seedCatalog(t)
		uow := NewGormUnitOfWorkFactory(c.store, zap.NewNop()).Begin()
		require.NoError(t, uow.Commit(ctx))

		assert.ErrorIs(t, uow.Commit(ctx), ErrUnitOfWorkCommitted)
	})

	t.Run("unsupported entity", func(t *testing.T) {
		c := seedCatalog(t)
		uow := NewGormUnitOfWorkFactory(c.store, zap.NewNop()).Begin()
		uow.RegisterNew(&otherEntity{id: uuid.New()})

		assert.ErrorIs(t, uow.Commit(ctx), ErrUnsupportedEntity)
	})

	t.Run("update of a price that was never stored", func(t *testing.T) {
		c := seedCatalog(t)
		eur, err := c.product.AddPrice("EUR", decimal.NewFromInt(9))
		require.NoError(t, err)

		uow := NewGormUnitOfWorkFactory(c.store, zap.NewNop()).Begin()
		uow.RegisterDirty(eur)

		assert.ErrorIs(t, uow.Commit(ctx), ErrEntityNotFoundOnSave)
	})
}
