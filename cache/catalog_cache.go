package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spoty/logger"

	"github.com/redis/go-redis/v9"
)

const (
	catalogKeyPrefix = "catalog:"
	catalogTTL       = 5 * time.Minute
)

// CatalogCache is a best-effort Redis cache for catalog list reads. Failures
// are logged and swallowed: the store is always the source of truth and a
// broken cache must never surface as a request error.
type CatalogCache struct {
	client *redis.Client
}

// NewCatalogCache creates a CatalogCache. A nil client disables caching.
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

func listKey(collection, qualifier string) string {
	if qualifier == "" {
		return catalogKeyPrefix + collection + ":all"
	}
	return catalogKeyPrefix + collection + ":" + qualifier
}

// GetList loads a cached list into dest. Returns false on miss or any error.
func (c *CatalogCache) GetList(ctx context.Context, collection, qualifier string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, listKey(collection, qualifier)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("catalog cache read failed",
				logger.String("collection", collection),
				logger.ErrorField(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("catalog cache entry corrupt, dropping",
			logger.String("collection", collection),
			logger.ErrorField(err))
		c.client.Del(ctx, listKey(collection, qualifier))
		return false
	}
	return true
}

// SetList stores a list result with the catalog TTL.
func (c *CatalogCache) SetList(ctx context.Context, collection, qualifier string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warn("catalog cache marshal failed", logger.ErrorField(err))
		return
	}
	if err := c.client.Set(ctx, listKey(collection, qualifier), data, catalogTTL).Err(); err != nil {
		logger.Warn("catalog cache write failed",
			logger.String("collection", collection),
			logger.ErrorField(err))
	}
}

// Invalidate drops every cached list of a collection. Called on every write.
func (c *CatalogCache) Invalidate(ctx context.Context, collection string) {
	if c == nil || c.client == nil {
		return
	}
	pattern := fmt.Sprintf("%s%s:*", catalogKeyPrefix, collection)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("catalog cache scan failed",
			logger.String("collection", collection),
			logger.ErrorField(err))
		return
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			logger.Warn("catalog cache invalidation failed",
				logger.String("collection", collection),
				logger.ErrorField(err))
		}
	}
}
