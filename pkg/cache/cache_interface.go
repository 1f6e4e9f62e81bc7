package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheClosed is returned by operations on a cache that was closed.
var ErrCacheClosed = errors.New("cache is closed")

// Cache is the contract of the read-through cache used by repositories.
// Implementations: Redis, in-process (ttlcache) and a no-op.
type Cache interface {
	// Get decodes the value stored under key into dest.
	// found is false on a miss, in which case dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores value under key for ttl. A zero ttl uses the backend default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error

	Close() error
}
