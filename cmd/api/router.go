package main

import (
	"context"
	"net/http"
	"time"

	"catalog-service/internal/shared/middleware"
	"catalog-service/internal/shared/response"
	"catalog-service/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(ctx context.Context, c *container.Container) *gin.Engine {
	router := gin.New()

	limiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		Enabled: c.Config.RateLimit.Enabled,
		RPS:     c.Config.RateLimit.RPS,
		Burst:   c.Config.RateLimit.Burst,
	})

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.ClientIPMiddleware(),
		middleware.Logger(),
		middleware.CORS(),
		limiter.Middleware(),
	)

	router.GET("/", greetingHandler(c))

	v1 := router.Group("/api/v1")
	v1.GET("/health", healthCheckHandler(c))

	c.BookHandler.RegisterRoutes(router, middleware.Authenticate(c.JWTManager))

	return router
}

func greetingHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "Welcome to the %s!", c.Config.App.Name)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		storeErr, cacheErr := c.Ping(pingCtx)

		checks := gin.H{
			"store": statusOf(storeErr),
			"cache": statusOf(cacheErr),
		}
		if c.DB != nil {
			if stats, err := c.DB.Stats(); err == nil {
				checks["pool"] = stats
			}
		}

		if storeErr != nil {
			response.ErrorWithDetails(ctx, http.StatusServiceUnavailable, "UNHEALTHY", "Store unavailable", checks)
			return
		}

		response.Success(ctx, http.StatusOK, gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
			"checks":  checks,
		})
	}
}

func statusOf(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
