package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mehdibargach/watchnext/internal/domain"
)

const defaultTTL = 10 * time.Minute

// Cache stores per-movie recommendation results in redis. Artifacts are
// immutable for the lifetime of the process, so entries are never
// invalidated, only TTL-expired.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func buildKey(tmdbID int64, limit int) string {
	return fmt.Sprintf("sim:movie:%d:limit:%d", tmdbID, limit)
}

// Get returns the cached result for a movie, reporting whether it was found.
func (c *Cache) Get(ctx context.Context, tmdbID int64, limit int) (*domain.SimilarResult, bool, error) {
	key := buildKey(tmdbID, limit)
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}

	var result domain.SimilarResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, false, fmt.Errorf("cache unmarshal %s: %w", key, err)
	}
	return &result, true, nil
}

// Set stores a result under the movie/limit key.
func (c *Cache) Set(ctx context.Context, tmdbID int64, limit int, result *domain.SimilarResult) error {
	key := buildKey(tmdbID, limit)
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
