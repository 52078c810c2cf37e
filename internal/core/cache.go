// AngelaMos | 2026
// cache.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON read-through cache over Redis. Keys live under a
// namespace version; Invalidate bumps the version so every older entry
// becomes unreachable at once and expires on its own TTL.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewCache(client *redis.Client, prefix string, ttl time.Duration) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Get looks key up under the current namespace version and returns that
// version. A value computed after a miss must be stored with SetAt using the
// returned version so an Invalidate in between leaves it unreachable.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, int64, error) {
	version, err := c.Version(ctx)
	if err != nil {
		return false, 0, err
	}

	raw, err := c.client.Get(ctx, c.key(version, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, version, nil
	}
	if err != nil {
		return false, version, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return false, version, fmt.Errorf("cache decode: %w", err)
	}

	return true, version, nil
}

// SetAt stores value under the given namespace version.
func (c *Cache) SetAt(ctx context.Context, version int64, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	if err := c.client.Set(ctx, c.key(version, key), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey()).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

func (c *Cache) versionKey() string {
	return c.prefix + ":version"
}

func (c *Cache) Version(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("cache version: %w", err)
	}
	return version, nil
}

func (c *Cache) key(version int64, key string) string {
	return c.prefix + ":v" + strconv.FormatInt(version, 10) + ":" + key
}
