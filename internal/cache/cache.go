package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/wayfarer/internal/suggest"
)

const defaultTTL = time.Hour

// Cache wraps a Redis client and provides typed get/set/delete for
// suggestion responses keyed by preference hash.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a Cache with a 1-hour TTL, matching the width of
// the time bucket baked into the keys.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

func key(hash string) string {
	return "suggest:" + hash
}

// Get retrieves a cached response.
// Returns nil, nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, hash string) (*suggest.Response, error) {
	val, err := c.client.Get(ctx, key(hash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache get %s: %w", hash, err)
	}

	var resp suggest.Response
	if err := json.Unmarshal([]byte(val), &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling cached response %s: %w", hash, err)
	}

	return &resp, nil
}

// Set stores a response with the configured TTL.
func (c *Cache) Set(ctx context.Context, hash string, resp *suggest.Response) error {
	if resp == nil {
		return nil
	}

	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshaling response %s: %w", hash, err)
	}

	if err := c.client.Set(ctx, key(hash), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", hash, err)
	}

	return nil
}

// Delete removes the cached entry for the given hash.
func (c *Cache) Delete(ctx context.Context, hash string) error {
	if err := c.client.Del(ctx, key(hash)).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", hash, err)
	}
	return nil
}
