// Package geocache implements the durable callsign-keyed store of raw DXCC
// lookup payloads. Backends: one file per callsign (default), Redis, SQLite,
// and an in-process map.
package geocache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/couchcryptid/qso-mapper/internal/config"
	"github.com/couchcryptid/qso-mapper/internal/domain"
)

// Store is a GeoCache that holds resources until closed.
type Store interface {
	domain.GeoCache
	Close() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*RedisStore)(nil)
	_ Store = (*SQLiteStore)(nil)
)

// Open returns the backend selected by cfg.CacheBackend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.CacheBackend {
	case config.CacheFile, "":
		return NewFileStore(cfg.CacheDir)
	case config.CacheMemory:
		return NewMemoryStore(), nil
	case config.CacheRedis:
		s := NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.RedisKeyPrefix)
		if err := s.Ping(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return s, nil
	case config.CacheSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
}
