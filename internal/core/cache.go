// Package core defines the ports of the execution explorer and the small
// services that sit directly on them.
package core

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/target/batch-explorer/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
// The core defines the interface and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// CountCacheConfig holds configuration for count caching.
type CountCacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// DefaultCountCacheConfig returns a CountCacheConfig with sensible defaults.
func DefaultCountCacheConfig() CountCacheConfig {
	return CountCacheConfig{
		TTL:       30 * time.Second,
		KeyPrefix: "batch-explorer:",
	}
}

// CountCache keeps filter totals so paging through a large result set does not
// recount on every page. Totals are allowed to lag by up to the TTL.
type CountCache struct {
	cache CacheRepository
	cfg   CountCacheConfig
}

// NewCountCache creates a CountCache over cache.
func NewCountCache(cache CacheRepository, cfg CountCacheConfig) *CountCache {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCountCacheConfig().TTL
	}
	return &CountCache{cache: cache, cfg: cfg}
}

// Get returns the cached total for filter and whether one was present.
func (c *CountCache) Get(ctx context.Context, filter model.ExecutionFilter) (int, bool, error) {
	raw, err := c.cache.Get(ctx, c.key(filter))
	if err != nil || raw == nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		// Unreadable entries are treated as misses and overwritten on the next Put.
		return 0, false, nil
	}
	return n, true, nil
}

// Put caches total for filter.
func (c *CountCache) Put(ctx context.Context, filter model.ExecutionFilter, total int) error {
	return c.cache.Set(ctx, c.key(filter), []byte(strconv.Itoa(total)), c.cfg.TTL)
}

// Invalidate drops the cached total for filter.
func (c *CountCache) Invalidate(ctx context.Context, filter model.ExecutionFilter) error {
	_, err := c.cache.Delete(ctx, c.key(filter))
	return err
}

// key identifies a filter by the fields its shape reads.
func (c *CountCache) key(f model.ExecutionFilter) string {
	var suffix string
	switch f.Shape {
	case model.FilterByName:
		suffix = f.JobName
	case model.FilterByStatus:
		suffix = string(f.Status)
	case model.FilterByNameAndStatus:
		suffix = f.JobName + ":" + string(f.Status)
	case model.FilterByDateRange:
		suffix = fmt.Sprintf("%d:%d", f.From.UnixNano(), f.To.UnixNano())
	case model.FilterByJobInstanceID:
		suffix = strconv.FormatInt(f.JobInstanceID, 10)
	case model.FilterByTaskExecutionID:
		suffix = strconv.FormatInt(f.TaskExecutionID, 10)
	}
	return c.cfg.KeyPrefix + "count:" + string(f.Shape) + ":" + suffix
}
