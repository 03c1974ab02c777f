package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/driveaway/car-rental-api/internal/config"
	"github.com/driveaway/car-rental-api/internal/handler"
	"github.com/driveaway/car-rental-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the registration and login endpoints under
// /api/auth. Both are reached without a token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterRentals registers the rental lifecycle endpoints under
// /api/rentals. Every route runs the JWT middleware first, so handlers
// always see an authenticated identity in the context. The read
// endpoints additionally go through the per-user response cache; rdb may
// be nil, which disables caching.
func RegisterRentals(e *echo.Echo, r *handler.RentalHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api/rentals")
	g.Use(middleware.JWTAuth(jwtSecret))

	cache := middleware.RedisCache(cacheCfg, rdb)

	g.POST("", r.Create)
	g.GET("/user", r.ListMine, cache)
	g.GET("/:id", r.GetByID, cache)
	g.PATCH("/:id/status", r.UpdateStatus)
	g.PATCH("/:id/cancel", r.Cancel)
}
