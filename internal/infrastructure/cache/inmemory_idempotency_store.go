package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/pricesync/internal/domain/shared"
)

const pruneInterval = 5 * time.Minute

// InMemoryIdempotencyStore implements IdempotencyStore for a single instance.
// Expired keys are pruned while marking.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	expiry    map[string]time.Time
	lastPrune time.Time
	now       func() time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		expiry:    make(map[string]time.Time),
		lastPrune: time.Now(),
		now:       time.Now,
	}
}

// MarkProcessed implements shared.IdempotencyStore
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastPrune) >= pruneInterval {
		s.prune(now)
	}

	if expiresAt, ok := s.expiry[key]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)
	return true, nil
}

// IsProcessed implements shared.IdempotencyStore
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.expiry[key]
	return ok && s.now().Before(expiresAt), nil
}

// Len returns the number of keys held, expired ones included until pruned
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

func (s *InMemoryIdempotencyStore) prune(now time.Time) {
	for key, expiresAt := range s.expiry {
		if !now.Before(expiresAt) {
			delete(s.expiry, key)
		}
	}
	s.lastPrune = now
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
