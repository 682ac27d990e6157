package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"todo-service/internal/config"
	"todo-service/pkg/logger"
)

// Cache keys for the default list pages. Only the first page with default
// paging is cached; other pages go straight to the database.
const (
	TodosListKey = "todos:list"
	UsersListKey = "users:list"
)

// Cache is a read-through byte cache over Redis. A nil *Cache is valid and
// turns every operation into a no-op, so the service runs without Redis.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis when REDIS_URL is configured. Returns nil (cache
// disabled) when the URL is empty, malformed, or unreachable.
func New(ctx context.Context, cfg *config.Config) *Cache {
	if cfg.RedisURL == "" {
		logger.Info(ctx, "Cache disabled (no REDIS_URL)")
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error(ctx, "Invalid REDIS_URL", "error", err)
		return nil
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "Redis unreachable, cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	logger.Info(ctx, "Redis cache initialized", "pool_size", opts.PoolSize)
	return &Cache{client: client, ttl: time.Duration(cfg.CacheTTL) * time.Second}
}

// Close releases the Redis connection pool.
func (c *Cache) Close() {
	if c != nil {
		_ = c.client.Close()
	}
}

// Ping reports cache reachability for the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// GetRaw returns the cached JSON bytes for key. (nil, false) on miss, error
// or disabled cache.
func (c *Cache) GetRaw(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Cache get failed", "error", err, "key", key)
		return nil, false
	}
	return b, true
}

// SetRawAsync stores JSON bytes under key without blocking the request path.
func (c *Cache) SetRawAsync(key string, b []byte) {
	if c == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
			logger.Debug(ctx, "Cache set failed", "error", err, "key", key)
		}
	}()
}

// Invalidate drops keys so the next read goes to the database.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Debug(ctx, "Cache invalidate failed", "error", err, "keys", keys)
	}
}
