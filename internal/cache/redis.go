package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/pictora/pictora/internal/models"
	"github.com/pictora/pictora/pkg/config"
	"github.com/pictora/pictora/pkg/logging"
)

// defaultCountsTTL bounds staleness of cached engagement counts when
// the config does not set one. Writes invalidate eagerly; the TTL only
// covers invalidation we missed.
const defaultCountsTTL = time.Minute

// Cache wraps Redis client. A nil *Cache is valid and behaves as a
// disabled cache.
type Cache struct {
	client    *redis.Client
	ctx       context.Context
	countsTTL time.Duration
}

// New creates a new Redis cache client
func New(cfg *config.RedisConfig) (*Cache, error) {
	if !cfg.Enabled {
		logging.GetLogger().Info("Redis cache disabled")
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.GetLogger().Info("Redis connection established")

	ttl := cfg.CountsTTL
	if ttl <= 0 {
		ttl = defaultCountsTTL
	}

	return &Cache{
		client:    client,
		ctx:       context.Background(),
		countsTTL: ttl,
	}, nil
}

// CountsKey builds the cache key for a post's engagement counts
func CountsKey(postID int64) string {
	return fmt.Sprintf("post:counts:%d", postID)
}

// GetCounts retrieves cached engagement counts for a post
func (c *Cache) GetCounts(postID int64) (*models.EngagementCounts, error) {
	if c == nil || c.client == nil {
		return nil, ErrCacheDisabled
	}
	raw, err := c.client.Get(c.ctx, CountsKey(postID)).Result()
	if err != nil {
		return nil, err
	}
	var counts models.EngagementCounts
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// SetCounts caches engagement counts for a post
func (c *Cache) SetCounts(postID int64, counts *models.EngagementCounts) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(c.ctx, CountsKey(postID), raw, c.countsTTL).Err()
}

// InvalidateCounts drops the cached counts for a post. Called on every
// engagement write.
func (c *Cache) InvalidateCounts(postID int64) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Del(c.ctx, CountsKey(postID)).Err()
}

// Close closes the Redis connection
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Health checks Redis health
func (c *Cache) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}

var (
	// ErrCacheDisabled is returned when cache operations are attempted but cache is disabled
	ErrCacheDisabled = fmt.Errorf("cache is disabled")
)
