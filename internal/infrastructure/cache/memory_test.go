package cache

import (
	"context"
	"testing"
	"time"

	"catalog-service/pkg/cache"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ISBN  string          `json:"isbn"`
	Price decimal.Decimal `json:"price"`
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	in := entry{ISBN: "1234567891", Price: decimal.RequireFromString("9.90")}
	require.NoError(t, c.Set(ctx, "books:isbn:1234567891", in, 0))

	var out entry
	found, err := c.Get(ctx, "books:isbn:1234567891", &out)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, in.ISBN, out.ISBN)
	assert.True(t, in.Price.Equal(out.Price))

	require.NoError(t, c.Delete(ctx, "books:isbn:1234567891", "books:isbn:unknown"))
	found, err = c.Get(ctx, "books:isbn:1234567891", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	in := &entry{ISBN: "1234567891"}
	require.NoError(t, c.Set(ctx, "k", in, 0))
	in.ISBN = "changed"

	var out entry
	_, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.Equal(t, "1234567891", out.ISBN)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "k", entry{ISBN: "1"}, 20*time.Millisecond))

	assert.Eventually(t, func() bool {
		var out entry
		found, err := c.Get(ctx, "k", &out)
		return err == nil && !found
	}, time.Second, 10*time.Millisecond)
}

func TestMemoryCache_Closed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	var out entry
	_, err := c.Get(ctx, "k", &out)
	assert.ErrorIs(t, err, cache.ErrCacheClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", out, 0), cache.ErrCacheClosed)
	assert.ErrorIs(t, c.Ping(ctx), cache.ErrCacheClosed)
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	var c NoopCache

	require.NoError(t, c.Set(ctx, "k", entry{ISBN: "1"}, 0))
	var out entry
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}
