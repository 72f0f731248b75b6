package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tanker-ledger/config"
	"tanker-ledger/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mocks
// ═══════════════════════════════════════════════════════════

type mockChecker struct {
	revoked map[string]bool
	err     error
}

func (m *mockChecker) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return m.revoked[jti], m.err
}

type mockLimiter struct {
	counts map[string]int
	err    error
}

func (m *mockLimiter) CheckRateLimit(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	m.counts[key]++
	return m.counts[key] <= limit, nil
}

// ═══════════════════════════════════════════════════════════
// Helpers
// ═══════════════════════════════════════════════════════════

func newTestManager() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "middleware-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
}

func authEngine(mgr *jwt.Manager, checker TokenChecker) *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(mgr, checker))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id")+"|"+c.GetString("token_jti"))
	})
	return r
}

func doGet(r *gin.Engine, path, bearer string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	r.ServeHTTP(w, req)
	return w
}

// ═══════════════════════════════════════════════════════════
// JWTAuth Tests
// ═══════════════════════════════════════════════════════════

func TestJWTAuth_ValidAccessToken(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateAccessToken("user-1")

	w := doGet(authEngine(mgr, nil), "/me", token)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.HasPrefix(w.Body.String(), "user-1|") {
		t.Errorf("expected user_id in context, got %s", w.Body.String())
	}
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := doGet(authEngine(newTestManager(), nil), "/me", "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_RefreshTokenRejected(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateRefreshToken("user-1")

	w := doGet(authEngine(mgr, nil), "/me", token)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_BlacklistedToken(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateAccessToken("user-1")
	claims, _ := mgr.ParseToken(token)

	checker := &mockChecker{revoked: map[string]bool{claims.ID: true}}
	w := doGet(authEngine(mgr, checker), "/me", token)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuth_CheckerErrorFailsOpen(t *testing.T) {
	mgr := newTestManager()
	token, _ := mgr.GenerateAccessToken("user-1")

	checker := &mockChecker{err: errors.New("redis down")}
	w := doGet(authEngine(mgr, checker), "/me", token)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RateLimit Tests
// ═══════════════════════════════════════════════════════════

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	limiter := &mockLimiter{counts: map[string]int{}}
	r := gin.New()
	r.GET("/export", RateLimit(limiter, 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := doGet(r, "/export", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, w.Code)
		}
	}
	if w := doGet(r, "/export", ""); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestRateLimit_NilLimiterPasses(t *testing.T) {
	r := gin.New()
	r.GET("/export", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if w := doGet(r, "/export", ""); w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	}
}

func TestRateLimit_LimiterErrorPasses(t *testing.T) {
	r := gin.New()
	r.GET("/export", RateLimit(&mockLimiter{err: errors.New("boom")}, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := doGet(r, "/export", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// RequestID / BodyLimit / Logger Tests
// ═══════════════════════════════════════════════════════════

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Logger(zap.NewNop()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := doGet(r, "/ping", "")
	rid := w.Header().Get("X-Request-ID")
	if rid == "" || rid != w.Body.String() {
		t.Errorf("expected generated request id to be echoed, header=%q body=%q", rid, w.Body.String())
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected abc-123, got %q", got)
	}
}

func TestBodyLimit_RejectsLargeBody(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/save", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/save", strings.NewReader(strings.Repeat("x", 64)))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed, got %q", got)
	}
}
