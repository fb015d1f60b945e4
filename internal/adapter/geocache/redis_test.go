//go:build redis

package geocache

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests need a reachable Redis at REDIS_ADDR.
// Run with: go test -tags=redis ./internal/adapter/geocache/ -v -count=1

func redisStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Fatal("REDIS_ADDR must be set to run redis tests")
	}
	s := NewRedisStore(&redis.Options{Addr: addr}, "qsomap-test:"+uuid.NewString()+":")
	require.NoError(t, s.Ping(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRedisStore_MissThenHit(t *testing.T) {
	s := redisStore(t)
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "W1ABC")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, "W1ABC", []byte(samplePayload)))

	got, ok, err := s.Get(ctx, "W1ABC")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, samplePayload, string(got))
}

func TestRedisStore_FirstWriteWins(t *testing.T) {
	s := redisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "W1ABC", []byte("first")))
	require.NoError(t, s.Put(ctx, "W1ABC", []byte("second")))

	got, _, err := s.Get(ctx, "W1ABC")
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
}
