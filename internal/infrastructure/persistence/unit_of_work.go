package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/erp/pricesync/internal/domain/pricing"
	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/erp/pricesync/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUnsupportedEntity    = errors.New("persistence: entity type cannot be written by the unit of work")
	ErrUnitOfWorkCommitted  = errors.New("persistence: unit of work already committed")
	ErrEntityNotFoundOnSave = errors.New("persistence: entity to update does not exist")
)

// GormUnitOfWorkFactory starts GORM-backed units of work and owns the commit
// hooks every unit of work runs
type GormUnitOfWorkFactory struct {
	db     *gorm.DB
	logger *zap.Logger

	mu    sync.RWMutex
	hooks []shared.CommitHook
}

// NewGormUnitOfWorkFactory creates a new GormUnitOfWorkFactory
func NewGormUnitOfWorkFactory(db *gorm.DB, logger *zap.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, logger: logger}
}

// RegisterHook adds a hook that runs inside every later commit, in registration order
func (f *GormUnitOfWorkFactory) RegisterHook(hook shared.CommitHook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, hook)
}

// Begin implements shared.UnitOfWorkFactory
func (f *GormUnitOfWorkFactory) Begin() shared.UnitOfWork {
	f.mu.RLock()
	hooks := make([]shared.CommitHook, len(f.hooks))
	copy(hooks, f.hooks)
	f.mu.RUnlock()

	return &GormUnitOfWork{db: f.db, logger: f.logger, hooks: hooks}
}

// GormUnitOfWork collects new and dirty entities and writes them in one transaction.
// It is not safe for concurrent use.
type GormUnitOfWork struct {
	db     *gorm.DB
	logger *zap.Logger
	hooks  []shared.CommitHook

	insertions []shared.Entity
	updates    []shared.Entity
	committed  bool
}

// RegisterNew implements shared.UnitOfWork
func (u *GormUnitOfWork) RegisterNew(entity shared.Entity) {
	if contains(u.insertions, entity) {
		return
	}
	u.insertions = append(u.insertions, entity)
}

// RegisterDirty implements shared.UnitOfWork. Entities already scheduled for
// insertion are written once, as an insert.
func (u *GormUnitOfWork) RegisterDirty(entity shared.Entity) {
	if contains(u.insertions, entity) || contains(u.updates, entity) {
		return
	}
	u.updates = append(u.updates, entity)
}

// Commit runs the commit hooks against a snapshot of the pending writes and
// then writes them. Hooks share the transaction through the context.
func (u *GormUnitOfWork) Commit(ctx context.Context) error {
	if u.committed {
		return ErrUnitOfWorkCommitted
	}

	snapshot := newPendingChanges(u.insertions, u.updates)

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := WithTx(ctx, tx)
		for _, hook := range u.hooks {
			if err := hook.OnCommit(txCtx, snapshot); err != nil {
				return fmt.Errorf("commit hook: %w", err)
			}
		}
		for _, entity := range u.insertions {
			if err := insertEntity(tx, entity); err != nil {
				return err
			}
		}
		for _, entity := range u.updates {
			if err := updateEntity(tx, entity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	u.committed = true
	clearChanges(u.insertions)
	clearChanges(u.updates)
	u.logger.Debug("Unit of work committed",
		zap.Int("inserted", len(u.insertions)),
		zap.Int("updated", len(u.updates)),
	)
	return nil
}

func insertEntity(tx *gorm.DB, entity shared.Entity) error {
	switch e := entity.(type) {
	case *pricing.Price:
		return tx.Create(models.PriceModelFromDomain(e)).Error
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedEntity, entity)
	}
}

func updateEntity(tx *gorm.DB, entity shared.Entity) error {
	switch e := entity.(type) {
	case *pricing.Price:
		model := models.PriceModelFromDomain(e)
		result := tx.Model(&models.PriceModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]any{
				"currency":   model.Currency,
				"value":      model.Value,
				"updated_at": model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: price %s", ErrEntityNotFoundOnSave, model.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedEntity, entity)
	}
}

func clearChanges(entities []shared.Entity) {
	for _, entity := range entities {
		if tracked, ok := entity.(shared.ChangeTracked); ok {
			tracked.ClearChanges()
		}
	}
}

func contains(entities []shared.Entity, entity shared.Entity) bool {
	for _, e := range entities {
		if e == entity {
			return true
		}
	}
	return false
}

// pendingChanges is the inspector handed to commit hooks. Change sets are
// copied when the commit starts so hooks see a stable view.
type pendingChanges struct {
	insertions []shared.Entity
	updates    []shared.Entity
	changeSets map[shared.Entity]shared.ChangeSet
}

func newPendingChanges(insertions, updates []shared.Entity) *pendingChanges {
	p := &pendingChanges{
		insertions: append([]shared.Entity(nil), insertions...),
		updates:    append([]shared.Entity(nil), updates...),
		changeSets: make(map[shared.Entity]shared.ChangeSet, len(insertions)+len(updates)),
	}
	for _, entity := range p.insertions {
		p.changeSets[entity] = shared.ChangeSet{}
	}
	for _, entity := range p.updates {
		changes := shared.ChangeSet{}
		if tracked, ok := entity.(shared.ChangeTracked); ok {
			changes = tracked.Changes()
		}
		p.changeSets[entity] = changes
	}
	return p
}

// ScheduledInsertions implements shared.TransactionInspector
func (p *pendingChanges) ScheduledInsertions() []shared.Entity {
	return p.insertions
}

// ScheduledUpdates implements shared.TransactionInspector
func (p *pendingChanges) ScheduledUpdates() []shared.Entity {
	return p.updates
}

// EntityChangeSet implements shared.TransactionInspector
func (p *pendingChanges) EntityChangeSet(entity shared.Entity) shared.ChangeSet {
	return p.changeSets[entity]
}

var (
	_ shared.UnitOfWorkFactory    = (*GormUnitOfWorkFactory)(nil)
	_ shared.UnitOfWork           = (*GormUnitOfWork)(nil)
	_ shared.TransactionInspector = (*pendingChanges)(nil)
)
