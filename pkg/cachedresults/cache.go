package cachedresults

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache stores upstream responses that rarely change, keyed by a namespaced
// string. A nil *Cache is valid and caches nothing.
type Cache struct {
	Namespace string

	cache *cache.Cache[string]
}

func New(client *redis.Client, namespace string, expiration time.Duration) *Cache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &Cache{
		Namespace: namespace,
		cache:     cache.New[string](redisStore),
	}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:%s", c.Namespace, key)
}

// GetJSON decodes a cached value into target, reporting whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, target any) bool {
	if c == nil {
		return false
	}

	value, err := c.cache.Get(ctx, c.key(key))
	if err != nil {
		return false
	}

	if err := json.Unmarshal([]byte(value), target); err != nil {
		log.Warn().Err(err).Str("key", c.key(key)).Msg("Discarding unreadable cache entry")
		return false
	}

	return true
}

func (c *Cache) SetJSON(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		log.Error().Err(err).Str("key", c.key(key)).Msg("Failed to encode cache entry")
		return
	}

	if err := c.cache.Set(ctx, c.key(key), string(encoded)); err != nil {
		log.Error().Err(err).Str("key", c.key(key)).Msg("Failed to write cache entry")
	}
}
