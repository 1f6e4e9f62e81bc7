package cache

import (
	"context"
	"sync/atomic"
	"time"

	"catalog-service/pkg/cache"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache implements cache.Cache inside the process.
// Values are stored encoded so callers never share mutable state with the cache.
type MemoryCache struct {
	items  *ttlcache.Cache[string, []byte]
	closed atomic.Bool
}

var _ cache.Cache = (*MemoryCache)(nil)

// NewMemoryCache starts a cache whose entries expire after defaultTTL.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	items := ttlcache.New(ttlcache.WithTTL[string, []byte](defaultTTL))
	go items.Start()
	return &MemoryCache{items: items}
}

func (m *MemoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if m.closed.Load() {
		return false, cache.ErrCacheClosed
	}
	item := m.items.Get(key)
	if item == nil {
		return false, nil
	}
	if err := decode(item.Value(), dest); err != nil {
		return false, err
	}
	return true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.closed.Load() {
		return cache.ErrCacheClosed
	}
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	m.items.Set(key, data, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, keys ...string) error {
	if m.closed.Load() {
		return cache.ErrCacheClosed
	}
	for _, key := range keys {
		m.items.Delete(key)
	}
	return nil
}

func (m *MemoryCache) Ping(context.Context) error {
	if m.closed.Load() {
		return cache.ErrCacheClosed
	}
	return nil
}

func (m *MemoryCache) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.items.Stop()
	}
	return nil
}

// Len reports the number of live entries.
func (m *MemoryCache) Len() int {
	return m.items.Len()
}
