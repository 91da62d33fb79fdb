package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisIdempotencyStore(client, "")

	t.Run("mark then check", func(t *testing.T) {
		marked, err := store.MarkProcessed(ctx, "job-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, marked)
		assert.True(t, server.Exists(DefaultProcessedJobPrefix+"job-1"))

		marked, err = store.MarkProcessed(ctx, "job-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, marked)

		processed, err := store.IsProcessed(ctx, "job-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("ttl expiry", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "job-2", time.Minute)
		require.NoError(t, err)

		server.FastForward(2 * time.Minute)

		processed, err := store.IsProcessed(ctx, "job-2")
		require.NoError(t, err)
		assert.False(t, processed)
	})

	t.Run("redis down", func(t *testing.T) {
		server.SetError("READONLY")
		defer server.SetError("")

		_, err := store.MarkProcessed(ctx, "job-3", time.Hour)
		assert.Error(t, err)
		_, err = store.IsProcessed(ctx, "job-3")
		assert.Error(t, err)
	})
}
