package auth

import (
	"context"

	"github.com/erp/pricesync/internal/domain/shared"
)

type actorKey struct{}

// Actor is the authenticated user a request acts for
type Actor struct {
	UserID   string
	Username string
}

// WithActor attaches the authenticated actor to the context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor attached to the context
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok && actor.UserID != ""
}

// ContextActorGate treats a change as interactive when the context carries an
// authenticated actor. Background jobs, inbound sync and the export writer run
// without one.
type ContextActorGate struct{}

// IsAuthenticated implements shared.ActorGate
func (ContextActorGate) IsAuthenticated(ctx context.Context) bool {
	_, ok := ActorFromContext(ctx)
	return ok
}

var _ shared.ActorGate = ContextActorGate{}
