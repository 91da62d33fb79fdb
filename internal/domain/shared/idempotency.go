package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys of work that already completed, so a
// redelivered message is not applied twice
type IdempotencyStore interface {
	// MarkProcessed records the key for ttl.
	// Returns false if the key was already recorded.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key is recorded and not expired
	IsProcessed(ctx context.Context, key string) (bool, error)
}
