package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/magic-villa-api/internal/config"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func serve(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRedisCacheHitMissAndInvalidation(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{
		Enabled: true,
		Methods: map[string]bool{http.MethodGet: true},
		TTL:     time.Minute,
		Prefix:  "test:cache",
	}

	calls := 0
	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb))
	e.GET("/api/villa/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"id": c.Param("id")})
	})
	e.PUT("/api/villa/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	if rec := serve(e, http.MethodGet, "/api/villa/1", nil); rec.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first read: X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	rec := serve(e, http.MethodGet, "/api/villa/1", nil)
	if rec.Header().Get("X-Cache") != "HIT" || calls != 1 {
		t.Fatalf("second read: X-Cache = %q, handler calls = %d", rec.Header().Get("X-Cache"), calls)
	}
	if !strings.Contains(rec.Body.String(), `"id":"1"`) {
		t.Errorf("cached body = %s", rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		t.Errorf("cached content type = %q", rec.Header().Get(echo.HeaderContentType))
	}

	// a different id must not be served from the entry above
	rec = serve(e, http.MethodGet, "/api/villa/2", nil)
	if rec.Header().Get("X-Cache") != "MISS" || !strings.Contains(rec.Body.String(), `"id":"2"`) {
		t.Fatalf("other id: X-Cache = %q body = %s", rec.Header().Get("X-Cache"), rec.Body.String())
	}

	serve(e, http.MethodPut, "/api/villa/1", nil)
	if rec := serve(e, http.MethodGet, "/api/villa/1", nil); rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("read after write: X-Cache = %q", rec.Header().Get("X-Cache"))
	}
	if calls != 3 {
		t.Errorf("handler calls = %d, want 3", calls)
	}
}

func TestRedisCacheSkipsErrors(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.CacheConfig{Enabled: true, Methods: map[string]bool{http.MethodGet: true}, TTL: time.Minute, Prefix: "test:cache"}

	calls := 0
	e := echo.New()
	e.Use(NewRedisCache(cfg, rdb))
	e.GET("/api/villa/:id", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusNotFound, echo.Map{"error": "villa not found"})
	})

	serve(e, http.MethodGet, "/api/villa/9", nil)
	serve(e, http.MethodGet, "/api/villa/9", nil)
	if calls != 2 {
		t.Errorf("404 responses must not be cached, handler calls = %d", calls)
	}
}

func TestRedisCacheDisabledWithoutClient(t *testing.T) {
	e := echo.New()
	e.Use(NewRedisCache(config.CacheConfig{Enabled: true}, nil))
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	if rec := serve(e, http.MethodGet, "/", nil); rec.Header().Get("X-Cache") != "" {
		t.Errorf("X-Cache = %q, want none", rec.Header().Get("X-Cache"))
	}
}

func TestTokenBucketBlocks(t *testing.T) {
	_, rdb := newRedis(t)
	cfg := config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: time.Hour,
		TTL:            time.Hour,
		KeyStrategy:    "ip_route",
		Prefix:         "test:rl",
	}

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.GET("/api/villa", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if rec := serve(e, http.MethodGet, "/api/villa", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, rec.Code)
		}
	}
	rec := serve(e, http.MethodGet, "/api/villa", nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" || rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("headers = %v", rec.Header())
	}
}

func TestTokenBucketFailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := config.RateLimitConfig{Enabled: true, Capacity: 1, RefillTokens: 1, RefillInterval: time.Second, TTL: time.Minute, Prefix: "test:rl"}

	e := echo.New()
	e.Use(NewTokenBucket(cfg, rdb))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mr.Close()
	for i := 0; i < 3; i++ {
		if rec := serve(e, http.MethodGet, "/", nil); rec.Code != http.StatusOK {
			t.Fatalf("status = %d with redis down", rec.Code)
		}
	}
}

func signed(t *testing.T, secret, method string, claims jwt.MapClaims) string {
	t.Helper()
	var m jwt.SigningMethod = jwt.SigningMethodHS256
	if method == "HS512" {
		m = jwt.SigningMethodHS512
	}
	s, err := jwt.NewWithClaims(m, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestJWTAuthAndRole(t *testing.T) {
	const secret = "s3cret"
	e := echo.New()
	e.DELETE("/api/villa/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, subject(c))
	}, JWTAuth(secret), RequireRole("admin"))

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, "other", "HS256", jwt.MapClaims{"sub": "ana", "role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"wrong alg", "Bearer " + signed(t, secret, "HS512", jwt.MapClaims{"sub": "ana", "role": "admin", "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, secret, "HS256", jwt.MapClaims{"sub": "ana", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"wrong role", "Bearer " + signed(t, secret, "HS256", jwt.MapClaims{"sub": "ana", "role": "viewer", "exp": exp}), http.StatusForbidden},
		{"ok", "Bearer " + signed(t, secret, "HS256", jwt.MapClaims{"sub": "ana", "role": "admin", "exp": exp}), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.auth != "" {
				h.Set("Authorization", tt.auth)
			}
			rec := serve(e, http.MethodDelete, "/api/villa/1", h)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status == http.StatusOK && rec.Body.String() != "ana" {
				t.Errorf("subject = %q", rec.Body.String())
			}
		})
	}
}

func TestRequestIDPropagates(t *testing.T) {
	e := echo.New()
	e.Use(RequestID)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("request_id").(string))
	})

	h := http.Header{}
	h.Set(RequestIDHeader, "abc-123")
	rec := serve(e, http.MethodGet, "/", h)
	if rec.Body.String() != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("body = %q header = %q", rec.Body.String(), rec.Header().Get(RequestIDHeader))
	}

	rec = serve(e, http.MethodGet, "/", nil)
	if len(rec.Header().Get(RequestIDHeader)) != 36 {
		t.Errorf("generated id = %q", rec.Header().Get(RequestIDHeader))
	}
}
