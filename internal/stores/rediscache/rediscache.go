// Package rediscache caches the public storefront menu. Menus are read on
// every customer page load and change rarely, so a short TTL plus explicit
// invalidation on vendor writes keeps the DB off the hot path.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const menuKeyPrefix = "menu:"

// ErrCacheMiss is returned when no cached value exists for the key.
var ErrCacheMiss = errors.New("cache miss")

type Conf struct {
	client *redis.Client
	ttl    time.Duration
}

func NewConf(client *redis.Client, ttl time.Duration) (*Conf, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Conf{client: client, ttl: ttl}, nil
}

// GetMenu loads a cached menu payload into dest.
func (c *Conf) GetMenu(ctx context.Context, slug string, dest any) error {
	data, err := c.client.Get(ctx, menuKeyPrefix+slug).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cached menu: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to decode cached menu: %w", err)
	}
	return nil
}

// SetMenu stores a menu payload under the business slug.
func (c *Conf) SetMenu(ctx context.Context, slug string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode menu: %w", err)
	}
	if err := c.client.Set(ctx, menuKeyPrefix+slug, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache menu: %w", err)
	}
	return nil
}

// InvalidateMenu drops the cached menu after a vendor edits products,
// categories or settings.
func (c *Conf) InvalidateMenu(ctx context.Context, slug string) error {
	if err := c.client.Del(ctx, menuKeyPrefix+slug).Err(); err != nil {
		return fmt.Errorf("failed to invalidate menu: %w", err)
	}
	return nil
}
