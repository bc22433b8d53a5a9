package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache over a shared Redis instance with JSON
// payloads. Entries live at most their TTL; the repository remains the
// authority whenever Redis is unreachable or stale.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an existing go-redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached session and whether the key was present
func (c *RedisCache) Get(ctx context.Context, key string) (*Session, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt entry is treated as a miss after removal
		_ = c.client.Del(ctx, key).Err()
		return nil, false, err
	}
	return &sess, true, nil
}

// Set stores the session under key for at most ttl
func (c *RedisCache) Set(ctx context.Context, key string, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Delete removes the key
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
