package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/storage"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves image upload and placeholder generation.
type UploadHandler struct {
	store    *storage.ImageStore
	apiCache cache.Cache[string, any]
	ttl      time.Duration
}

func NewUploadHandler(store *storage.ImageStore, apiCache cache.Cache[string, any], ttl time.Duration) *UploadHandler {
	return &UploadHandler{store: store, apiCache: apiCache, ttl: ttl}
}

// Upload handles POST /api/upload
// Accepts a multipart "image" field, stores it under a uuid filename and
// trims the upload directory back to its retention cap.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An image file is required (multipart field \"image\")"})
		return
	}
	defer file.Close()

	if !storage.ValidExt(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image type. Allowed: jpg, jpeg, png, webp, gif"})
		return
	}
	if header.Size > h.store.MaxBytes() {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Image too large"})
		return
	}

	name, err := h.store.Save(header.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
		return
	}

	if removed, err := h.store.EnforceRetention(); err != nil {
		log.Println("upload retention sweep failed:", err)
	} else if removed > 0 {
		log.Printf("upload retention removed %d old image(s)", removed)
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":      "/uploads/" + name,
		"filename": name,
	})
}

// Placeholder handles GET /api/placeholder/:width/:height
// Returns a generated SVG, memoized in the short-TTL API cache.
func (h *UploadHandler) Placeholder(c *gin.Context) {
	width, errW := strconv.Atoi(c.Param("width"))
	height, errH := strconv.Atoi(c.Param("height"))
	if errW != nil || errH != nil || width < 1 || height < 1 || width > 2000 || height > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Width and height must be integers between 1 and 2000"})
		return
	}

	key := "placeholder:" + c.Param("width") + "x" + c.Param("height")
	if cached, ok := h.apiCache.Get(key); ok {
		if svg, ok := cached.(string); ok {
			c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
			return
		}
	}

	svg := storage.PlaceholderSVG(width, height)
	h.apiCache.Set(key, svg, h.ttl)
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}
