package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// JSONCache stores values as JSON under a key prefix.
type JSONCache struct {
	c      *Client
	prefix string
}

func NewJSONCache(c *Client, prefix string) *JSONCache {
	return &JSONCache{c: c, prefix: prefix}
}

// Get decodes the cached value into dst and reports whether it was present.
func (j *JSONCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := j.c.rdb.Get(ctx, j.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

func (j *JSONCache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return j.c.rdb.Set(ctx, j.prefix+key, raw, ttl).Err()
}
