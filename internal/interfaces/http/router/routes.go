package router

import (
	"github.com/erp/pricesync/internal/infrastructure/auth"
	"github.com/erp/pricesync/internal/interfaces/http/handler"
	"github.com/erp/pricesync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PermissionPriceUpdate is required to edit prices
const PermissionPriceUpdate = "price:update"

// maxBodyBytes bounds price edit requests
const maxBodyBytes = 64 << 10

// Handlers holds the handlers mounted by SetupRoutes
type Handlers struct {
	Health *handler.HealthHandler
	Price  *handler.PriceHandler
}

// SetupRoutes mounts the probes at the root and the price API under /api/v1
// behind JWT authentication
func SetupRoutes(engine *gin.Engine, handlers Handlers, jwtService *auth.JWTService, logger *zap.Logger) {
	engine.GET("/health", handlers.Health.Health)
	engine.GET("/ready", handlers.Health.Ready)

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = logger

	prices := NewDomainGroup("/products").
		Use(middleware.BodyLimit(maxBodyBytes), middleware.RequirePermission(PermissionPriceUpdate)).
		PUT("/:sku/prices", handlers.Price.SetProductPrice).
		PUT("/:sku/channels/:channel/prices", handlers.Price.SetChannelPrice)

	NewRouter(engine, WithMiddleware(middleware.JWTAuthMiddlewareWithConfig(jwtCfg))).
		Register(prices).
		Setup()
}
