package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/pricesync/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const externalIDKeyPrefix = "pricesync:external_id:"

// ExternalIDStore is the durable store behind the cache
type ExternalIDStore interface {
	integration.ExternalIDReader
	integration.ExternalIDWriter
}

// RedisExternalIDCache is a read-through, write-through Redis cache of external ids.
// Only recorded ids are cached: "never exported" always reaches the store, so
// an id recorded by another process is seen on the next read.
// Redis failures are logged and fall back to the store.
type RedisExternalIDCache struct {
	client *redis.Client
	store  ExternalIDStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisExternalIDCache creates a new cache in front of store
func NewRedisExternalIDCache(client *redis.Client, store ExternalIDStore, ttl time.Duration, logger *zap.Logger) *RedisExternalIDCache {
	return &RedisExternalIDCache{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *RedisExternalIDCache) key(productID, channelID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", externalIDKeyPrefix, productID, channelID)
}

// FindExternalID implements integration.ExternalIDReader
func (c *RedisExternalIDCache) FindExternalID(ctx context.Context, productID, channelID uuid.UUID) (string, bool, error) {
	key := c.key(productID, channelID)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, true, nil
	case err != nil && !errors.Is(err, redis.Nil):
		c.logger.Warn("External id cache read failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	id, ok, err := c.store.FindExternalID(ctx, productID, channelID)
	if err != nil || !ok {
		return id, ok, err
	}

	c.set(ctx, key, id)
	return id, true, nil
}

// SaveExternalID implements integration.ExternalIDWriter. The store is written first.
func (c *RedisExternalIDCache) SaveExternalID(ctx context.Context, productID, channelID uuid.UUID, externalID string) error {
	if err := c.store.SaveExternalID(ctx, productID, channelID, externalID); err != nil {
		return err
	}
	key := c.key(productID, channelID)
	if externalID == "" {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("External id cache delete failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	c.set(ctx, key, externalID)
	return nil
}

func (c *RedisExternalIDCache) set(ctx context.Context, key, externalID string) {
	if err := c.client.Set(ctx, key, externalID, c.ttl).Err(); err != nil {
		c.logger.Warn("External id cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

var (
	_ integration.ExternalIDReader = (*RedisExternalIDCache)(nil)
	_ integration.ExternalIDWriter = (*RedisExternalIDCache)(nil)
)
