package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deepkiyada/product-catalog/internal/cache"
	"github.com/deepkiyada/product-catalog/internal/ratelimit"
	"github.com/deepkiyada/product-catalog/internal/realtime"
	"github.com/deepkiyada/product-catalog/internal/storage"
	"github.com/deepkiyada/product-catalog/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, generalLimit, strictLimit int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	store, err := storage.NewImageStore(t.TempDir(), 10, 1<<20)
	require.NoError(t, err)

	return Setup(Deps{
		DB:             db,
		ProductCache:   cache.NewTTLCache[string, any](5 * time.Minute),
		APICache:       cache.NewTTLCache[string, any](time.Minute),
		Hub:            realtime.NewHub(),
		Store:          store,
		GeneralLimiter: ratelimit.New(generalLimit, time.Minute, nil),
		StrictLimiter:  ratelimit.New(strictLimit, time.Minute, nil),
		BotLimiter:     ratelimit.New(generalLimit, time.Minute, ratelimit.ClientIPUserAgentKey),
		ProductTTL:     5 * time.Minute,
		APITTL:         time.Minute,
	})
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, 100, 100)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"database":"ok"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, 100, 100)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/products"},
		{http.MethodPut, "/api/products/p-1"},
		{http.MethodDelete, "/api/products/p-1"},
		{http.MethodPost, "/api/upload"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestPublicCatalogIsRateLimited(t *testing.T) {
	r := newTestRouter(t, 2, 2)

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "203.0.113.5:1000"
		req.Header.Set("User-Agent", "test-agent")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusTooManyRequests, do())

	// health stays reachable regardless of the API quota
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "203.0.113.5:1000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLoginIsStrictlyRateLimited(t *testing.T) {
	// strict quota of 2 while the general quota stays roomy, so the 429
	// below can only come from the strict limiter on /api/login
	r := newTestRouter(t, 100, 2)

	post := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "203.0.113.9:1000"
		req.Header.Set("User-Agent", "test-agent")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusBadRequest, post("/api/login").Code)
	require.Equal(t, http.StatusBadRequest, post("/api/login").Code)

	w := post("/api/login")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))

	// catalog reads ride the general limiter and stay unaffected
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "203.0.113.9:1000"
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
