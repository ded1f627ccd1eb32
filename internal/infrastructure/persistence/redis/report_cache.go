// Package redis implements Redis caching for the school dashboard.
package redis

import (
	"context"
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORT CACHE
// ══════════════════════════════════════════════════════════════════════════════

// Key prefix for assembled report views.
const PrefixReport = "report:"

// TTLReportView is the default TTL for cached report views. Short on
// purpose: writes invalidate proactively, the TTL only covers writes
// that bypass the event bus.
const TTLReportView = 5 * time.Minute

// ReportKey generates a cache key for an assembled report view.
func ReportKey(name string) string {
	return PrefixReport + name
}

// ReportCache adapts Cache to the query layer's miss-tolerant contract:
// a miss is reported as a boolean, not an error.
type ReportCache struct {
	cache *Cache
}

// NewReportCache creates a new ReportCache.
func NewReportCache(cache *Cache) *ReportCache {
	return &ReportCache{cache: cache}
}

// Get loads a cached view into dest. Returns false on a miss.
func (r *ReportCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	err := r.cache.Get(ctx, ReportKey(key), dest)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Set stores an assembled view under the report namespace.
func (r *ReportCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLReportView
	}
	return r.cache.Set(ctx, ReportKey(key), value, ttl)
}

// Invalidate drops the given views, or the whole report namespace when
// called without keys.
func (r *ReportCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return r.cache.DeleteByPattern(ctx, PrefixReport+"*")
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = ReportKey(k)
	}
	return r.cache.Delete(ctx, prefixed...)
}
