// Package cache keeps resolved search block form defaults in a shared store.
package cache

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gofiber/storage/redis/v3"

	"searchbar/internal/searchbar"
)

const keyPrefix = "searchbar:block:"

// DefaultSettleDelay is how long InvalidateAfterWrite waits before its second delete.
const DefaultSettleDelay = 2 * time.Second

// Storage is the subset of a Fiber storage backend the cache needs.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
	Delete(key string) error
}

// NewRedisStorage connects to redis at url. It panics if redis is unreachable.
func NewRedisStorage(url string) *redis.Storage {
	return redis.New(redis.Config{URL: url})
}

// BlockCache caches form defaults by block slug.
// A BlockCache with nil storage or zero TTL never hits.
type BlockCache struct {
	storage Storage
	ttl     time.Duration
	settle  time.Duration
}

// NewBlockCache creates a block cache over storage.
func NewBlockCache(storage Storage, ttl time.Duration) *BlockCache {
	return &BlockCache{storage: storage, ttl: ttl, settle: DefaultSettleDelay}
}

func (c *BlockCache) enabled() bool {
	return c != nil && c.storage != nil && c.ttl > 0
}

// Get returns the cached form defaults for slug.
func (c *BlockCache) Get(slug string) (searchbar.FormDefaults, bool) {
	var d searchbar.FormDefaults
	if !c.enabled() {
		return d, false
	}

	data, err := c.storage.Get(keyPrefix + slug)
	if err != nil {
		slog.Error("failed to read block cache", "block", slug, "error", err)
		return d, false
	}
	if len(data) == 0 {
		return d, false
	}

	if err := json.Unmarshal(data, &d); err != nil {
		slog.Error("failed to decode cached block", "block", slug, "error", err)
		return d, false
	}
	return d, true
}

// Set stores the form defaults for slug.
func (c *BlockCache) Set(slug string, d searchbar.FormDefaults) {
	if !c.enabled() {
		return
	}

	data, err := json.Marshal(d)
	if err != nil {
		slog.Error("failed to encode block for cache", "block", slug, "error", err)
		return
	}
	if err := c.storage.Set(keyPrefix+slug, data, c.ttl); err != nil {
		slog.Error("failed to write block cache", "block", slug, "error", err)
	}
}

// Invalidate drops the cached entry for slug.
func (c *BlockCache) Invalidate(slug string) {
	if !c.enabled() {
		return
	}
	if err := c.storage.Delete(keyPrefix + slug); err != nil {
		slog.Error("failed to invalidate block cache", "block", slug, "error", err)
	}
}

// InvalidateAfterWrite drops the entry for slug now and once more after the
// settle delay. A reader that loaded the row before the write and cached it
// after the first delete loses that entry on the second.
func (c *BlockCache) InvalidateAfterWrite(slug string) {
	if !c.enabled() {
		return
	}
	c.Invalidate(slug)
	if c.settle > 0 {
		time.AfterFunc(c.settle, func() { c.Invalidate(slug) })
	}
}
