package container

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/config"
	bookHandler "catalog-service/internal/domains/book/handler"
	bookRepo "catalog-service/internal/domains/book/repository"
	bookService "catalog-service/internal/domains/book/service"
	infraCache "catalog-service/internal/infrastructure/cache"
	"catalog-service/internal/infrastructure/database"
	"catalog-service/pkg/cache"
	"catalog-service/pkg/jwt"
	"catalog-service/pkg/logger"
)

// Container holds every long-lived dependency of the API process.
// Build order: config, store, cache, repository, service, handler.
type Container struct {
	Config *config.Config

	// Exactly one of DB and SQLite is set, depending on STORE_DRIVER.
	DB     *database.PostgresDB
	SQLite *bookRepo.SQLiteRepository

	Cache      cache.Cache
	JWTManager *jwt.Manager

	BookRepo    bookRepo.RepositoryInterface
	BookService bookService.ServiceInterface
	BookHandler *bookHandler.Handler
}

// NewContainer loads the configuration from the environment and builds the graph.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(ctx, cfg)
}

// Build wires the dependency graph for cfg. On error everything opened so far is closed.
func Build(ctx context.Context, cfg *config.Config) (_ *Container, err error) {
	c := &Container{Config: cfg}
	defer func() {
		if err != nil {
			c.Cleanup()
		}
	}()

	logger.Info("Initializing container", map[string]interface{}{
		"env":   cfg.App.Environment,
		"store": cfg.Store.Driver,
		"cache": cfg.Cache.Driver,
	})

	store, err := c.initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.initCache(ctx); err != nil {
		return nil, err
	}

	c.BookRepo = store
	if cfg.Cache.Driver != config.CacheDriverNone {
		c.BookRepo = bookRepo.NewCachedRepository(store, c.Cache, cfg.Cache.TTL)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	c.BookService = bookService.NewService(c.BookRepo)
	c.BookHandler = bookHandler.NewHandler(c.BookService)

	if cfg.App.LoadTestData {
		if err := bookService.NewDemoData(c.BookRepo).Load(ctx); err != nil {
			return nil, fmt.Errorf("failed to load test data: %w", err)
		}
	}

	logger.Info("Container initialized", nil)
	return c, nil
}

func (c *Container) initStore(ctx context.Context) (bookRepo.RepositoryInterface, error) {
	switch c.Config.Store.Driver {
	case config.StoreDriverSQLite:
		repo, err := bookRepo.NewSQLiteRepository(bookRepo.SQLiteConfig{Path: c.Config.Store.SQLitePath})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		c.SQLite = repo
		return repo, nil

	default:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)
		connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()

		if err := db.Connect(connectCtx); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		return bookRepo.NewPostgresRepository(db.Pool), nil
	}
}

func (c *Container) initCache(ctx context.Context) error {
	switch c.Config.Cache.Driver {
	case config.CacheDriverRedis:
		rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB, c.Config.Cache.TTL)
		if err := rc.Connect(ctx); err != nil {
			// The cached repository falls back to the store on every cache error.
			logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{
				"error": err.Error(),
			})
		}
		c.Cache = rc
	case config.CacheDriverMemory:
		c.Cache = infraCache.NewMemoryCache(c.Config.Cache.TTL)
	default:
		c.Cache = infraCache.NoopCache{}
	}
	return nil
}

// Ping checks the store and the cache. Cache failures are reported separately
// because the API keeps working without the cache.
func (c *Container) Ping(ctx context.Context) (storeErr, cacheErr error) {
	switch {
	case c.DB != nil:
		storeErr = c.DB.Ping(ctx)
	case c.SQLite != nil:
		_, storeErr = c.SQLite.ExistsByISBN(ctx, "")
	}
	if c.Cache != nil {
		cacheErr = c.Cache.Ping(ctx)
	}
	return storeErr, cacheErr
}

// Cleanup releases every resource the container opened.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if c.SQLite != nil {
		if err := c.SQLite.Close(); err != nil {
			logger.Error("Failed to close sqlite store", err)
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("Failed to close cache", err)
		}
	}
}
