package session

import (
	"context"
	"time"
)

// Cache is a best-effort read accelerator keyed by session token. Every
// method returns an error that callers must explicitly acknowledge; the
// Manager routes all calls through warn-and-continue helpers so a cache
// outage slows validation down but never fails it.
type Cache interface {
	// Get returns the cached session and whether the key was present
	Get(ctx context.Context, key string) (*Session, bool, error)

	// Set stores the session under key for at most ttl
	Set(ctx context.Context, key string, sess *Session, ttl time.Duration) error

	// Delete removes the key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// NopCache is the default cache when none is configured: every read misses
// and writes vanish, forcing all validations through the repository.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string) (*Session, bool, error) {
	return nil, false, nil
}

func (NopCache) Set(ctx context.Context, key string, sess *Session, ttl time.Duration) error {
	return nil
}

func (NopCache) Delete(ctx context.Context, key string) error {
	return nil
}

func cacheKey(token string) string {
	return "session:" + token
}
