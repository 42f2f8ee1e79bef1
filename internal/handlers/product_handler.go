package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/models"
	"github.com/deepkiyada/product-catalog/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateProductRequest represents the request payload for creating a product
type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	OriginalPrice *float64 `json:"originalPrice"`
	Category      string   `json:"category"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Featured      bool     `json:"featured"`
	Tags          []string `json:"tags"`
}

// UpdateProductRequest represents the request payload for updating a product.
// Pointer fields distinguish "absent" from zero values.
type UpdateProductRequest struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Price         *float64  `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Category      *string   `json:"category"`
	Image         *string   `json:"image"`
	Images        *[]string `json:"images"`
	Featured      *bool     `json:"featured"`
	Tags          *[]string `json:"tags"`
}

// ProductHandler serves the catalog CRUD routes. The cache and hub are
// injected at construction; reads go through memoized fetchers keyed by the
// catalog cache-key convention, writes invalidate and broadcast.
type ProductHandler struct {
	db    *gorm.DB
	cache cache.Cache[string, any]
	hub   *realtime.Hub

	fetchAll      func(context.Context, string) ([]models.Product, error)
	fetchFeatured func(context.Context, string) ([]models.Product, error)
	fetchCategory func(context.Context, string) ([]models.Product, error)
	fetchSearch   func(context.Context, string) ([]models.Product, error)
	fetchByID     func(context.Context, string) (models.Product, error)
}

// NewProductHandler wires the memoized read paths against the given cache
// with the given freshness window.
func NewProductHandler(db *gorm.DB, c cache.Cache[string, any], hub *realtime.Hub, ttl time.Duration) *ProductHandler {
	h := &ProductHandler{db: db, cache: c, hub: hub}

	h.fetchAll = cache.Memoize(c,
		func(string) string { return cache.KeyAllProducts }, ttl,
		func(ctx context.Context, _ string) ([]models.Product, error) {
			var products []models.Product
			err := db.WithContext(ctx).Order("created_at desc").Find(&products).Error
			return products, err
		})

	h.fetchFeatured = cache.Memoize(c,
		func(string) string { return cache.KeyFeaturedProducts }, ttl,
		func(ctx context.Context, _ string) ([]models.Product, error) {
			var products []models.Product
			err := db.WithContext(ctx).Where("featured = ?", true).Order("created_at desc").Find(&products).Error
			return products, err
		})

	h.fetchCategory = cache.Memoize(c, cache.CategoryKey, ttl,
		func(ctx context.Context, category string) ([]models.Product, error) {
			var products []models.Product
			err := db.WithContext(ctx).Where("category = ?", category).Order("created_at desc").Find(&products).Error
			return products, err
		})

	h.fetchSearch = cache.Memoize(c, cache.SearchKey, ttl,
		func(ctx context.Context, term string) ([]models.Product, error) {
			var products []models.Product
			like := "%" + term + "%"
			err := db.WithContext(ctx).
				Where("name LIKE ? OR description LIKE ? OR category LIKE ?", like, like, like).
				Order("created_at desc").Find(&products).Error
			return products, err
		})

	h.fetchByID = cache.Memoize(c, cache.ProductKey, ttl,
		func(ctx context.Context, id string) (models.Product, error) {
			var product models.Product
			err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error
			return product, err
		})

	return h
}

// broadcast publishes a catalog change event to websocket subscribers.
func (h *ProductHandler) broadcast(eventType, productID string) {
	if h.hub == nil {
		return
	}
	evt := map[string]any{
		"type":      eventType,
		"productId": productID,
		"version":   1,
	}
	if bytes, err := json.Marshal(evt); err == nil {
		h.hub.Broadcast(bytes)
	}
}

/*
*
GetProducts handles GET /api/products
Returns the catalog, optionally filtered.
Query params: category, search, featured=true. Filters are mutually
exclusive; search wins over category, category over featured.
*/
func (h *ProductHandler) GetProducts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		products []models.Product
		err      error
	)
	switch {
	case strings.TrimSpace(c.Query("search")) != "":
		products, err = h.fetchSearch(ctx, strings.TrimSpace(c.Query("search")))
	case c.Query("category") != "":
		products, err = h.fetchCategory(ctx, c.Query("category"))
	case c.Query("featured") == "true":
		products, err = h.fetchFeatured(ctx, "")
	default:
		products, err = h.fetchAll(ctx, "")
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProductByID handles GET /api/products/:id
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	product, err := h.fetchByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}

	c.JSON(http.StatusOK, product)
}

/*
*
CreateProduct handles POST /api/products
Creates a product and drops the list-level cache entries.
*/
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	if req.OriginalPrice != nil && *req.OriginalPrice < req.Price {
		c.JSON(http.StatusBadRequest, gin.H{"error": "originalPrice must not be below price"})
		return
	}

	image := req.Image
	if image == "" {
		image = "/api/placeholder/600/400"
	}

	product := models.Product{
		ID:            uuid.NewString(),
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Category:      req.Category,
		Image:         image,
		Images:        req.Images,
		Featured:      req.Featured,
		Tags:          req.Tags,
	}

	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create product",
		})
		return
	}

	cache.InvalidateProductCaches(h.cache, product.ID)
	h.broadcast("product_created", product.ID)

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /api/products/:id
// Applies a partial update and invalidates the product's cache entries.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	var existing models.Product
	result := h.db.Where("id = ?", productID).First(&existing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Description != nil {
		existing.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be greater than zero"})
			return
		}
		existing.Price = *req.Price
	}
	if req.OriginalPrice != nil {
		existing.OriginalPrice = req.OriginalPrice
	}
	if req.Category != nil {
		existing.Category = *req.Category
	}
	if req.Image != nil {
		existing.Image = *req.Image
	}
	if req.Images != nil {
		existing.Images = *req.Images
	}
	if req.Featured != nil {
		existing.Featured = *req.Featured
	}
	if req.Tags != nil {
		existing.Tags = *req.Tags
	}

	// same invariant the create path enforces, on the post-update state
	if existing.OriginalPrice != nil && *existing.OriginalPrice < existing.Price {
		c.JSON(http.StatusBadRequest, gin.H{"error": "originalPrice must not be below price"})
		return
	}

	if err := h.db.Save(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	cache.InvalidateProductCaches(h.cache, existing.ID)
	h.broadcast("product_updated", existing.ID)

	c.JSON(http.StatusOK, existing)
}

// DeleteProduct handles DELETE /api/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID := c.Param("id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	var product models.Product
	result := h.db.Where("id = ?", productID).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		}
		return
	}

	if err := h.db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	cache.InvalidateProductCaches(h.cache, productID)
	h.broadcast("product_deleted", productID)

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
		"id":      productID,
	})
}
