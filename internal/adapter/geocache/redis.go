package geocache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps entries under <prefix><CALL> with no TTL.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(opt *redis.Options, prefix string) *RedisStore {
	return &RedisStore{client: redis.NewClient(opt), prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, call string) ([]byte, bool, error) {
	b, err := s.client.Get(ctx, s.prefix+call).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return b, true, nil
}

// Put uses SETNX so the first payload stored for a callsign is kept.
func (s *RedisStore) Put(ctx context.Context, call string, payload []byte) error {
	if err := s.client.SetNX(ctx, s.prefix+call, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
