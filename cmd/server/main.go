package main

import (
	"log"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/config"
	"github.com/deepkiyada/product-catalog/internal/database"
	"github.com/deepkiyada/product-catalog/internal/ratelimit"
	"github.com/deepkiyada/product-catalog/internal/realtime"
	"github.com/deepkiyada/product-catalog/internal/routes"
	"github.com/deepkiyada/product-catalog/internal/storage"
)

func main() {
	cfg := config.Load()

	// Init database
	database.InitDB(cfg.DBPath, cfg.AdminUsername, cfg.AdminPassword)

	// Image file store
	store, err := storage.NewImageStore(cfg.UploadDir, cfg.UploadMaxFiles, cfg.UploadMaxBytes)
	if err != nil {
		log.Fatal("Failed to init image store: ", err)
	}

	// Shared mutable tables are owned here: constructed once, sweeps started
	// explicitly, instances injected into route setup.
	productCache := cache.NewTTLCache[string, any](cfg.ProductCacheTTL)
	apiCache := cache.NewTTLCache[string, any](cfg.APICacheTTL)
	productCache.Start(cfg.SweepInterval)
	apiCache.Start(cfg.SweepInterval)
	defer productCache.Stop()
	defer apiCache.Stop()

	general := ratelimit.New(cfg.GeneralLimit, cfg.GeneralWindow, ratelimit.ClientIPKey)
	strict := ratelimit.New(cfg.StrictLimit, cfg.StrictWindow, ratelimit.ClientIPKey)
	bot := ratelimit.New(cfg.BotLimit, cfg.BotWindow, ratelimit.ClientIPUserAgentKey)
	general.Start(cfg.SweepInterval)
	strict.Start(cfg.SweepInterval)
	bot.Start(cfg.SweepInterval)
	defer general.Stop()
	defer strict.Stop()
	defer bot.Stop()

	hub := realtime.NewHub()

	ginRoutes := routes.Setup(routes.Deps{
		DB:             database.GetDB(),
		ProductCache:   productCache,
		APICache:       apiCache,
		Hub:            hub,
		Store:          store,
		GeneralLimiter: general,
		StrictLimiter:  strict,
		BotLimiter:     bot,
		ProductTTL:     cfg.ProductCacheTTL,
		APITTL:         cfg.APICacheTTL,
	})

	port := ":" + cfg.Port
	log.Printf("Server starting on port %s", port)
	log.Println("API endpoints:")
	log.Println("  POST   /api/login")
	log.Println("  GET    /api/products")
	log.Println("  GET    /api/products/:id")
	log.Println("  POST   /api/products")
	log.Println("  PUT    /api/products/:id")
	log.Println("  DELETE /api/products/:id")
	log.Println("  POST   /api/upload")
	log.Println("  GET    /api/placeholder/:width/:height")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
