package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newUploadRouter(t *testing.T, maxFiles int) (*gin.Engine, *storage.ImageStore, *cache.TTLCache[string, any]) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := storage.NewImageStore(t.TempDir(), maxFiles, 1<<20)
	require.NoError(t, err)
	c := cache.NewTTLCache[string, any](time.Minute)
	h := NewUploadHandler(store, c, time.Minute)
	r := gin.New()
	r.POST("/api/upload", h.Upload)
	r.GET("/api/placeholder/:width/:height", h.Placeholder)
	return r, store, c
}

func multipartImage(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_Success(t *testing.T) {
	r, store, _ := newUploadRouter(t, 10)

	body, contentType := multipartImage(t, "image", "product.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp.URL, "/uploads/")

	_, err := os.Stat(filepath.Join(store.Dir(), resp.Filename))
	require.NoError(t, err)
}

func TestUpload_RejectsBadExtension(t *testing.T) {
	r, _, _ := newUploadRouter(t, 10)

	body, contentType := multipartImage(t, "image", "script.sh", []byte("#!/bin/sh"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	r, _, _ := newUploadRouter(t, 10)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpload_RetentionTrimsOldest(t *testing.T) {
	r, store, _ := newUploadRouter(t, 2)

	for i := 0; i < 4; i++ {
		body, contentType := multipartImage(t, "image", "img.png", []byte("png"))
		req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.LessOrEqual(t, len(entries), 2)
}

func TestPlaceholder_GeneratesAndCaches(t *testing.T) {
	r, _, c := newUploadRouter(t, 10)

	req := httptest.NewRequest(http.MethodGet, "/api/placeholder/600/400", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	require.Contains(t, w.Body.String(), `width="600"`)

	require.True(t, c.Has("placeholder:600x400"))
}

func TestPlaceholder_RejectsBadDimensions(t *testing.T) {
	r, _, _ := newUploadRouter(t, 10)

	for _, path := range []string{
		"/api/placeholder/0/100",
		"/api/placeholder/100/9999",
		"/api/placeholder/abc/100",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}
