package cache

import (
	"context"
	"time"

	"catalog-service/pkg/cache"
)

// NoopCache never stores anything. Used when caching is disabled.
type NoopCache struct{}

var _ cache.Cache = NoopCache{}

func (NoopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (NoopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }
func (NoopCache) Delete(context.Context, ...string) error { return nil }
func (NoopCache) Ping(context.Context) error { return nil }
func (NoopCache) Close() error { return nil }
