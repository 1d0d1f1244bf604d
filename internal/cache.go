package internal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a small read-through layer over Redis for the season aggregates,
// which are recomputed from four tables on every roster view. A nil *Cache
// is valid and caches nothing, so callers never branch on whether Redis is
// configured.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(addr, password string, ttl time.Duration) *Cache {
	if addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	return &Cache{rdb: rdb, ttl: ttl}
}

const CacheKeySeasonTotals = "roster:season_totals"

func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil is a plain miss; a broken cache degrades to one too,
		// the DB path still works.
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, key, raw, c.ttl)
}

func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.rdb.Del(ctx, keys...)
}
