// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_terrain/internal/feature/candles/domain/entity"
	"stock_terrain/internal/feature/candles/usecase"
)

const rangeKeyLayout = "20060102"

// CachingSampleRepository decorates a SampleRepository with Redis caching.
// Both the latest-N query and the date range query are cached under a
// per-symbol+interval prefix so that a single upsert invalidates both.
type CachingSampleRepository struct {
	inner     usecase.SampleRepository
	rdb       *redis.Client
	ttl       time.Duration
	ttlFn     func() time.Duration
	namespace string
}

var _ usecase.SampleRepository = (*CachingSampleRepository)(nil)

// NewCachingSampleRepository decorates a SampleRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "samples".
func NewCachingSampleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.SampleRepository, namespace string) *CachingSampleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "samples"
	}
	return &CachingSampleRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch inserts or updates samples and invalidates related cache entries.
func (c *CachingSampleRepository) UpsertBatch(ctx context.Context, samples []entity.Sample) error {
	if err := c.inner.UpsertBatch(ctx, samples); err != nil {
		return err
	}
	if c.rdb == nil || len(samples) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, s := range samples {
		prefix := c.cacheKeyPrefix(s.Symbol, s.Interval)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		// Best effort: stale entries expire with the TTL anyway
		if err := c.deleteByPattern(ctx, prefix+"*"); err != nil {
			slog.Warn("failed to invalidate sample cache", "prefix", prefix, "error", err)
		}
	}
	return nil
}

// WithTTLFunc makes every cache write ask fn for its expiration, so entries
// line up with a wall-clock refresh such as TimeUntilNext8AM. Non-positive
// results fall back to the fixed ttl.
func (c *CachingSampleRepository) WithTTLFunc(fn func() time.Duration) *CachingSampleRepository {
	c.ttlFn = fn
	return c
}

func (c *CachingSampleRepository) entryTTL() time.Duration {
	if c.ttlFn != nil {
		if d := c.ttlFn(); d > 0 {
			return d
		}
	}
	return c.ttl
}

// Find retrieves samples, checking cache first then falling back to the database.
func (c *CachingSampleRepository) Find(ctx context.Context, symbol, interval string, outputsize int) ([]entity.Sample, error) {
	if c.rdb == nil {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	}
	key := c.cacheKey(symbol, interval, outputsize)
	return c.readThrough(ctx, key, func() ([]entity.Sample, error) {
		return c.inner.Find(ctx, symbol, interval, outputsize)
	})
}

// FindRange retrieves samples in [from, to), checking cache first.
// Empty results are not cached so that a later read-through from the
// market can fill the range.
func (c *CachingSampleRepository) FindRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Sample, error) {
	if c.rdb == nil {
		return c.inner.FindRange(ctx, symbol, interval, from, to)
	}
	key := c.rangeKey(symbol, interval, from, to)
	return c.readThrough(ctx, key, func() ([]entity.Sample, error) {
		return c.inner.FindRange(ctx, symbol, interval, from, to)
	})
}

func (c *CachingSampleRepository) readThrough(ctx context.Context, key string, load func() ([]entity.Sample, error)) ([]entity.Sample, error) {
	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Sample
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := load()
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.entryTTL()).Err()
	}
	return out, nil
}

// cacheKey generates a cache key for a latest-N query.
func (c *CachingSampleRepository) cacheKey(symbol, interval string, outputsize int) string {
	return fmt.Sprintf("%s%d", c.cacheKeyPrefix(symbol, interval), outputsize)
}

// rangeKey generates a cache key for a date range query.
func (c *CachingSampleRepository) rangeKey(symbol, interval string, from, to time.Time) string {
	return fmt.Sprintf("%sr:%s-%s",
		c.cacheKeyPrefix(symbol, interval),
		from.UTC().Format(rangeKeyLayout),
		to.UTC().Format(rangeKeyLayout),
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingSampleRepository) cacheKeyPrefix(symbol, interval string) string {
	return fmt.Sprintf("%s:%s:%s:",
		c.namespace,
		safe(symbol),
		safe(interval),
	)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingSampleRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys, including
// the glob metacharacters used by SCAN MATCH.
func safe(s string) string {
	return keyEscaper.Replace(s)
}

var keyEscaper = strings.NewReplacer(" ", "_", ":", "_", "*", "_", "?", "_", "[", "_", "]", "_")
