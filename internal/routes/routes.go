package routes

import (
	"time"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/handlers"
	"github.com/deepkiyada/product-catalog/internal/middleware"
	"github.com/deepkiyada/product-catalog/internal/ratelimit"
	"github.com/deepkiyada/product-catalog/internal/realtime"
	"github.com/deepkiyada/product-catalog/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps carries the shared collaborators handlers need. Everything here is
// constructed once in main and injected; route setup owns no state.
type Deps struct {
	DB           *gorm.DB
	ProductCache cache.Cache[string, any]
	APICache     cache.Cache[string, any]
	Hub          *realtime.Hub
	Store        *storage.ImageStore

	GeneralLimiter *ratelimit.Limiter
	StrictLimiter  *ratelimit.Limiter
	BotLimiter     *ratelimit.Limiter

	ProductTTL time.Duration
	APITTL     time.Duration
}

// Setup assembles the router: public catalog reads behind the general and
// bot limiters, mutations behind JWT plus the strict limiter.
func Setup(deps Deps) *gin.Engine {
	ginRouter := gin.Default()

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	productHandler := handlers.NewProductHandler(deps.DB, deps.ProductCache, deps.Hub, deps.ProductTTL)
	authHandler := handlers.NewAuthHandler(deps.DB)
	uploadHandler := handlers.NewUploadHandler(deps.Store, deps.APICache, deps.APITTL)
	wsHandler := handlers.NewWSHandler(deps.Hub)
	healthHandler := handlers.NewHealthHandler(deps.DB, deps.ProductCache, deps.APICache,
		map[string]*ratelimit.Limiter{
			"general": deps.GeneralLimiter,
			"strict":  deps.StrictLimiter,
			"bot":     deps.BotLimiter,
		}, deps.Hub)

	// Health check endpoint, outside the limiters so probes never 429
	ginRouter.GET("/health", healthHandler.Health)

	// Uploaded images are served statically
	ginRouter.Static("/uploads", deps.Store.Dir())

	api := ginRouter.Group("/api")
	api.Use(middleware.RateLimit(deps.GeneralLimiter))

	// Public catalog reads; the bot limiter keys on IP+User-Agent
	catalog := api.Group("")
	catalog.Use(middleware.RateLimit(deps.BotLimiter))
	{
		catalog.GET("/products", productHandler.GetProducts)
		catalog.GET("/products/:id", productHandler.GetProductByID)
		catalog.GET("/placeholder/:width/:height", uploadHandler.Placeholder)
	}

	// Login sits behind the strict limiter
	api.POST("/login", middleware.RateLimit(deps.StrictLimiter), authHandler.Login)

	// Protected routes (authentication required)
	protectedRoutes := api.Group("")
	protectedRoutes.Use(middleware.RateLimit(deps.StrictLimiter))
	protectedRoutes.Use(middleware.JWTAuthMiddleware())
	{
		protectedRoutes.POST("/products", productHandler.CreateProduct)
		protectedRoutes.PUT("/products/:id", productHandler.UpdateProduct)
		protectedRoutes.DELETE("/products/:id", productHandler.DeleteProduct)
		protectedRoutes.POST("/upload", uploadHandler.Upload)
		protectedRoutes.GET("/ws", wsHandler.Stream)
	}

	return ginRouter
}
