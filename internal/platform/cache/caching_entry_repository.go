// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/micvant/TimeCheck-backend/internal/feature/sync/domain/entity"
	"github.com/micvant/TimeCheck-backend/internal/feature/sync/usecase"
)

// CachingEntryRepository decorates an EntryRepository with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository.
//
// Deltas are cached per user and cursor. Any accepted write invalidates all
// cached deltas of that user, so a stale delta can only outlive a write for
// the duration of an in-flight read (bounded by the TTL).
type CachingEntryRepository struct {
	inner     usecase.EntryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EntryRepository = (*CachingEntryRepository)(nil)

// NewCachingEntryRepository decorates an EntryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "entries".
func NewCachingEntryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EntryRepository, namespace string) *CachingEntryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "entries"
	}
	return &CachingEntryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch applies the batch and invalidates the user's cached deltas.
func (c *CachingEntryRepository) UpsertBatch(ctx context.Context, userID uint, entries []entity.TimeEntry) ([]entity.TimeEntry, error) {
	// First apply to the underlying repository
	accepted, err := c.inner.UpsertBatch(ctx, userID, entries)
	if err != nil {
		return nil, err
	}
	// A fully rejected batch leaves the server state untouched
	if c.rdb == nil || len(accepted) == 0 {
		return accepted, nil
	}

	// Invalidate every cached delta of this user (keys per user+cursor)
	_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(userID)+"*") // Best effort: don't fail if cache deletion fails
	return accepted, nil
}

// ListSince retrieves the delta, checking cache first then falling back to the database.
func (c *CachingEntryRepository) ListSince(ctx context.Context, userID uint, cursor int64) ([]entity.TimeEntry, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.ListSince(ctx, userID, cursor)
	}

	key := c.cacheKey(userID, cursor)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.TimeEntry
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.ListSince(ctx, userID, cursor)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// cacheKey generates a cache key for a specific delta query.
func (c *CachingEntryRepository) cacheKey(userID uint, cursor int64) string {
	return fmt.Sprintf("%s:%d:%d", c.namespace, userID, cursor)
}

// cacheKeyPrefix generates a prefix covering every cached delta of a user.
func (c *CachingEntryRepository) cacheKeyPrefix(userID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, userID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingEntryRepository) deleteByPattern(ctx context.Context, pattern string) error {
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
