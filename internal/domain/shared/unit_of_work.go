package shared

import "context"

// FieldChange holds the value of a field before and after a pending change
type FieldChange struct {
	Old any
	New any
}

// ChangeSet maps a field name to its pending change.
// An empty change set means the entity is new in the current unit of work.
type ChangeSet map[string]FieldChange

// Has reports whether the field is part of the change set
func (c ChangeSet) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Fields returns the names of the changed fields
func (c ChangeSet) Fields() []string {
	fields := make([]string, 0, len(c))
	for field := range c {
		fields = append(fields, field)
	}
	return fields
}

// ChangeTracked is implemented by entities that record their own dirty fields
type ChangeTracked interface {
	Entity
	// Changes returns the fields modified since the entity was loaded or last committed
	Changes() ChangeSet
	// ClearChanges forgets recorded changes once they are durable
	ClearChanges()
}

// TransactionInspector exposes the pending state of a unit of work that is about to commit.
// Implementations must return a consistent snapshot for the duration of a commit hook.
type TransactionInspector interface {
	// ScheduledInsertions returns the entities that will be inserted by this commit
	ScheduledInsertions() []Entity
	// ScheduledUpdates returns the entities that will be updated by this commit
	ScheduledUpdates() []Entity
	// EntityChangeSet returns the per-field changes of a scheduled entity.
	// Inserted entities report an empty change set.
	EntityChangeSet(entity Entity) ChangeSet
}

// ActorGate tells whether the current change is driven by an authenticated actor
type ActorGate interface {
	IsAuthenticated(ctx context.Context) bool
}

// ActorGateFunc adapts a function to ActorGate
type ActorGateFunc func(ctx context.Context) bool

// IsAuthenticated implements ActorGate
func (f ActorGateFunc) IsAuthenticated(ctx context.Context) bool {
	return f(ctx)
}

// CommitHook runs inside a unit of work right before its changes are written.
// An error aborts the commit.
type CommitHook interface {
	OnCommit(ctx context.Context, tx TransactionInspector) error
}

// CommitHookFunc adapts a function to CommitHook
type CommitHookFunc func(ctx context.Context, tx TransactionInspector) error

// OnCommit implements CommitHook
func (f CommitHookFunc) OnCommit(ctx context.Context, tx TransactionInspector) error {
	return f(ctx, tx)
}

// UnitOfWork collects pending writes and applies them in one transaction.
// Registered commit hooks see the pending writes before they are flushed.
type UnitOfWork interface {
	// RegisterNew schedules an entity for insertion
	RegisterNew(entity Entity)
	// RegisterDirty schedules an entity for update
	RegisterDirty(entity Entity)
	// Commit runs the commit hooks and writes the pending entities
	Commit(ctx context.Context) error
}

// UnitOfWorkFactory starts units of work
type UnitOfWorkFactory interface {
	Begin() UnitOfWork
}
