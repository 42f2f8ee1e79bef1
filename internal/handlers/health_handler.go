package handlers

import (
	"net/http"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/ratelimit"
	"github.com/deepkiyada/product-catalog/internal/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness plus best-effort diagnostics for
// the in-process tables. The snapshots carry no consistency guarantee.
type HealthHandler struct {
	db           *gorm.DB
	productCache cache.Cache[string, any]
	apiCache     cache.Cache[string, any]
	limiters     map[string]*ratelimit.Limiter
	hub          *realtime.Hub
}

func NewHealthHandler(db *gorm.DB, productCache, apiCache cache.Cache[string, any], limiters map[string]*ratelimit.Limiter, hub *realtime.Hub) *HealthHandler {
	return &HealthHandler{
		db:           db,
		productCache: productCache,
		apiCache:     apiCache,
		limiters:     limiters,
		hub:          hub,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "unavailable"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "unavailable"
	}

	limiterKeys := make(map[string]int, len(h.limiters))
	for name, l := range h.limiters {
		limiterKeys[name] = l.Len()
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"cache": gin.H{
			"products": h.productCache.Len(),
			"api":      h.apiCache.Len(),
		},
		"rateLimiterKeys": limiterKeys,
		"wsSubscribers":   h.hub.Len(),
	})
}
