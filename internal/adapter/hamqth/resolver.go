// Package hamqth resolves callsigns to DXCC entity coordinates using the
// HamQTH DXCC lookup, with a durable payload cache in front of it.
package hamqth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/qso-mapper/internal/domain"
	"github.com/couchcryptid/qso-mapper/internal/observability"
)

// Fetcher returns the raw lookup payload for a callsign.
type Fetcher interface {
	Fetch(ctx context.Context, call string) ([]byte, error)
}

// CachedResolver implements domain.CallsignResolver. It consults the cache
// first, fetches on a miss, writes the raw payload through to the cache, and
// only then parses it.
//
// Payloads fetched during the lifetime of a resolver are also kept in memory,
// so a callsign is fetched at most once even when the cache write fails.
type CachedResolver struct {
	cache   domain.GeoCache
	fetcher Fetcher
	fetched map[string][]byte
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewCachedResolver creates a resolver backed by cache and fetcher.
func NewCachedResolver(cache domain.GeoCache, fetcher Fetcher, metrics *observability.Metrics, logger *slog.Logger) *CachedResolver {
	return &CachedResolver{
		cache:   cache,
		fetcher: fetcher,
		fetched: make(map[string][]byte),
		metrics: metrics,
		logger:  logger,
	}
}

// Resolve returns the DXCC entity for call. Errors are *domain.ResolveError.
func (r *CachedResolver) Resolve(ctx context.Context, call string) (domain.DXCCEntity, error) {
	payload, ok := r.cached(ctx, call)
	if !ok {
		var err error
		payload, err = r.fetcher.Fetch(ctx, call)
		if err != nil {
			return domain.DXCCEntity{}, &domain.ResolveError{Call: call, Err: err}
		}
		r.fetched[call] = payload
		r.store(ctx, call, payload)
	}

	entity, err := ParseDXCC(payload)
	if err != nil {
		if !ok {
			r.metrics.RemoteLookups.WithLabelValues("malformed").Inc()
		}
		return domain.DXCCEntity{}, &domain.ResolveError{Call: call, Err: err}
	}
	if !ok {
		r.metrics.RemoteLookups.WithLabelValues("success").Inc()
	}
	return entity, nil
}

// cached returns a payload already known for call. Cache read errors are
// logged and treated as a miss.
func (r *CachedResolver) cached(ctx context.Context, call string) ([]byte, bool) {
	if payload, ok := r.fetched[call]; ok {
		r.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return payload, true
	}

	payload, ok, err := r.cache.Get(ctx, call)
	switch {
	case err != nil:
		r.metrics.CacheLookups.WithLabelValues("error").Inc()
		r.logger.Warn("geocache read failed, treating as miss", "call", call, "error", err)
		return nil, false
	case !ok:
		r.metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	default:
		r.metrics.CacheLookups.WithLabelValues("hit").Inc()
		r.logger.Debug("geocache hit", "call", call)
		return payload, true
	}
}

func (r *CachedResolver) store(ctx context.Context, call string, payload []byte) {
	if err := r.cache.Put(ctx, call, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		r.metrics.CacheWriteErrors.Inc()
		r.logger.Warn("geocache write failed", "call", call, "error", err)
	}
}
