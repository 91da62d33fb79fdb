package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockExternalIDStore struct {
	mock.Mock
}

func (m *MockExternalIDStore) FindExternalID(ctx context.Context, productID, channelID uuid.UUID) (string, bool, error) {
	args := m.Called(ctx, productID, channelID)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockExternalIDStore) SaveExternalID(ctx context.Context, productID, channelID uuid.UUID, externalID string) error {
	args := m.Called(ctx, productID, channelID, externalID)
	return args.Error(0)
}

func setupCache(t *testing.T) (*RedisExternalIDCache, *MockExternalIDStore, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := new(MockExternalIDStore)
	return NewRedisExternalIDCache(client, store, time.Minute, zap.NewNop()), store, server
}

func TestRedisExternalIDCache_FindExternalID(t *testing.T) {
	ctx := context.Background()
	productID, channelID := uuid.New(), uuid.New()

	t.Run("miss reads through and caches the id", func(t *testing.T) {
		cache, store, server := setupCache(t)
		store.On("FindExternalID", ctx, productID, channelID).Return("remote-1", true, nil).Once()

		id, ok, err := cache.FindExternalID(ctx, productID, channelID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "remote-1", id)

		// second read is served by redis
		id, ok, err = cache.FindExternalID(ctx, productID, channelID)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "remote-1", id)

		store.AssertExpectations(t)
		assert.Equal(t, time.Minute, server.TTL(cache.key(productID, channelID)))
	})

	t.Run("absent ids are not cached", func(t *testing.T) {
		cache, store, server := setupCache(t)
		store.On("FindExternalID", ctx, productID, channelID).Return("", false, nil).Twice()

		for i := 0; i < 2; i++ {
			_, ok, err := cache.FindExternalID(ctx, productID, channelID)
			require.NoError(t, err)
			assert.False(t, ok)
		}

		store.AssertExpectations(t)
		assert.False(t, server.Exists(cache.key(productID, channelID)))
	})

	t.Run("store errors are returned", func(t *testing.T) {
		cache, store, _ := setupCache(t)
		storeErr := errors.New("connection reset")
		store.On("FindExternalID", ctx, productID, channelID).Return("", false, storeErr)

		_, _, err := cache.FindExternalID(ctx, productID, channelID)

		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("redis outage falls back to the store", func(t *testing.T) {
		cache, store, server := setupCache(t)
		server.Close()
		store.On("FindExternalID", ctx, productID, channelID).Return("remote-1", true, nil)

		id, ok, err := cache.FindExternalID(ctx, productID, channelID)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "remote-1", id)
	})
}

func TestRedisExternalIDCache_SaveExternalID(t *testing.T) {
	ctx := context.Background()
	productID, channelID := uuid.New(), uuid.New()

	t.Run("writes through", func(t *testing.T) {
		cache, store, server := setupCache(t)
		store.On("SaveExternalID", ctx, productID, channelID, "remote-9").Return(nil)

		require.NoError(t, cache.SaveExternalID(ctx, productID, channelID, "remote-9"))

		cached, err := server.Get(cache.key(productID, channelID))
		require.NoError(t, err)
		assert.Equal(t, "remote-9", cached)
	})

	t.Run("store failure leaves the cache alone", func(t *testing.T) {
		cache, store, server := setupCache(t)
		storeErr := errors.New("deadlock")
		store.On("SaveExternalID", ctx, productID, channelID, "remote-9").Return(storeErr)

		err := cache.SaveExternalID(ctx, productID, channelID, "remote-9")

		assert.ErrorIs(t, err, storeErr)
		assert.False(t, server.Exists(cache.key(productID, channelID)))
	})

	t.Run("empty id evicts", func(t *testing.T) {
		cache, store, server := setupCache(t)
		require.NoError(t, server.Set(cache.key(productID, channelID), "remote-1"))
		store.On("SaveExternalID", ctx, productID, channelID, "").Return(nil)

		require.NoError(t, cache.SaveExternalID(ctx, productID, channelID, ""))

		assert.False(t, server.Exists(cache.key(productID, channelID)))
	})
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewRedisClient(redisConfigFor(t, addr))

	assert.Error(t, err)
}

func TestNewRedisClient(t *testing.T) {
	server := miniredis.RunT(t)

	client, err := NewRedisClient(redisConfigFor(t, server.Addr()))

	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
