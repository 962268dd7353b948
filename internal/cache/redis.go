package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"example.com/mams/config"
	"example.com/mams/internal/access"
)

// RedisCache provides caching using Redis
type RedisCache struct {
	client  *redis.Client
	enabled bool
}

// NewRedisCache creates a new Redis cache
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if !cfg.Enabled {
		return &RedisCache{enabled: false}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, errors.Wrap(err, "failed to connect to Redis")
	}

	return &RedisCache{client: client, enabled: true}, nil
}

// Get retrieves a value from cache
func (c *RedisCache) Get(ctx context.Context, key string, value interface{}) error {
	if c == nil || !c.enabled {
		return errors.New("cache is disabled")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return errors.Wrap(err, "key not found in cache")
		}
		return errors.Wrap(err, "failed to get value from Redis")
	}

	if err := json.Unmarshal(data, value); err != nil {
		return errors.Wrap(err, "failed to unmarshal cached value")
	}

	return nil
}

// Set stores a value in cache with optional expiration
func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c == nil || !c.enabled {
		return errors.New("cache is disabled")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to marshal value for caching")
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return errors.Wrap(err, "failed to set value in Redis")
	}

	return nil
}

// DashboardCacheKey derives a cache key from a resolved scope. The
// scope is resolved before key construction, so a commander can never
// hit another base's cached rows.
func DashboardCacheKey(scope access.Scope, includeUnbaselined bool) string {
	base := "all"
	if scope.BaseID != nil {
		base = scope.BaseID.String()
	}
	start, end := "", ""
	if scope.StartDate != nil {
		start = scope.StartDate.UTC().Format(time.RFC3339)
	}
	if scope.EndDate != nil {
		end = scope.EndDate.UTC().Format(time.RFC3339)
	}
	return fmt.Sprintf("dashboard:%s:%s:%s:%s:%t", base, scope.EquipmentType, start, end, includeUnbaselined)
}

// Close closes the Redis connection
func (c *RedisCache) Close() error {
	if c == nil || !c.enabled || c.client == nil {
		return nil
	}
	return c.client.Close()
}
