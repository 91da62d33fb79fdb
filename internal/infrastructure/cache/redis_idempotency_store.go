package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/pricesync/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

// DefaultProcessedJobPrefix namespaces completed export job ids
const DefaultProcessedJobPrefix = "pricesync:export_job:"

// RedisIdempotencyStore implements IdempotencyStore on Redis, shared by every
// instance consuming the same export queue
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisIdempotencyStore creates a store on an existing client
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = DefaultProcessedJobPrefix
	}
	return &RedisIdempotencyStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// MarkProcessed uses SETNX so concurrent consumers agree on a single winner
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	set, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark %s as processed: %w", key, err)
	}
	return set, nil
}

// IsProcessed implements shared.IdempotencyStore
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return exists > 0, nil
}

var _ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
