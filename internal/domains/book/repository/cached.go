package repository

import (
	"context"
	"sync"
	"time"

	"catalog-service/internal/domains/book/model"
	"catalog-service/pkg/cache"
	"catalog-service/pkg/logger"
)

// cachedRepository wraps a store with a read-through cache for single-book lookups.
// Listing and existence checks always go to the store.
type cachedRepository struct {
	store RepositoryInterface
	cache cache.Cache
	ttl   time.Duration

	// fills tracks lookups that may write the cache. invalidate bumps the
	// generation so a lookup that read the store before a write never
	// leaves its copy behind.
	mu    sync.Mutex
	fills map[string]*cacheFill
}

type cacheFill struct {
	generation uint64
	readers    int
}

// NewCachedRepository decorates store with c. Cache failures are logged and
// the call falls back to the store.
func NewCachedRepository(store RepositoryInterface, c cache.Cache, ttl time.Duration) RepositoryInterface {
	return &cachedRepository{
		store: store,
		cache: c,
		ttl:   ttl,
		fills: make(map[string]*cacheFill),
	}
}

func (r *cachedRepository) FindAll(ctx context.Context) ([]model.Book, error) {
	return r.store.FindAll(ctx)
}

func (r *cachedRepository) FindByISBN(ctx context.Context, isbn string) (*model.Book, bool, error) {
	cacheKey := model.GenerateBookCacheKey(isbn)

	var cached model.Book
	found, err := r.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Warn("[Repository] Cache get failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	if err == nil && found {
		return &cached, true, nil
	}

	generation := r.beginFill(cacheKey)
	book, ok, err := r.store.FindByISBN(ctx, isbn)
	if err != nil || !ok {
		r.endFill(cacheKey, generation)
		return book, ok, err
	}

	if err := r.cache.Set(ctx, cacheKey, book, r.ttl); err != nil {
		logger.Warn("[Repository] Cache set failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
	// A write landed between the store read and Set: the copy may be older
	// than the row, so drop it again.
	if r.endFill(cacheKey, generation) {
		r.deleteKey(ctx, cacheKey)
	}
	return book, true, nil
}

func (r *cachedRepository) beginFill(cacheKey string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	fill, ok := r.fills[cacheKey]
	if !ok {
		fill = &cacheFill{}
		r.fills[cacheKey] = fill
	}
	fill.readers++
	return fill.generation
}

// endFill reports whether the key was invalidated since beginFill.
func (r *cachedRepository) endFill(cacheKey string, generation uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	fill := r.fills[cacheKey]
	fill.readers--
	if fill.readers == 0 {
		delete(r.fills, cacheKey)
	}
	return fill.generation != generation
}

func (r *cachedRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	return r.store.ExistsByISBN(ctx, isbn)
}

func (r *cachedRepository) Save(ctx context.Context, book model.Book, principal model.Principal) (*model.Book, error) {
	saved, err := r.store.Save(ctx, book, principal)
	// A failed update may mean the cached copy is stale, so drop it either way.
	r.invalidate(ctx, book.ISBN)
	return saved, err
}

func (r *cachedRepository) DeleteByISBN(ctx context.Context, isbn string) error {
	err := r.store.DeleteByISBN(ctx, isbn)
	r.invalidate(ctx, isbn)
	return err
}

func (r *cachedRepository) invalidate(ctx context.Context, isbn string) {
	cacheKey := model.GenerateBookCacheKey(isbn)

	r.mu.Lock()
	if fill, ok := r.fills[cacheKey]; ok {
		fill.generation++
	}
	r.mu.Unlock()

	r.deleteKey(ctx, cacheKey)
}

func (r *cachedRepository) deleteKey(ctx context.Context, cacheKey string) {
	if err := r.cache.Delete(ctx, cacheKey); err != nil {
		logger.Warn("[Repository] Cache invalidation failed", map[string]interface{}{
			"key":   cacheKey,
			"error": err.Error(),
		})
	}
}
