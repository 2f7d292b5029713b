package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reisy1999/musatoku-thanks/config"
	"github.com/reisy1999/musatoku-thanks/internal/model"
	pkgerrors "github.com/reisy1999/musatoku-thanks/pkg/errors"
	"github.com/reisy1999/musatoku-thanks/pkg/jwt"
	"github.com/reisy1999/musatoku-thanks/pkg/metrics"
	"github.com/reisy1999/musatoku-thanks/pkg/redis"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAuthenticator struct {
	users map[string]*model.User
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*model.User, *jwt.Claims, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	u, ok := f.users[token]
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.ErrUnauthenticated, "认证信息无效")
	}
	return u, &jwt.Claims{UserID: u.ID}, nil
}

func newFakeAuth() *fakeAuthenticator {
	deptID := uint(3)
	return &fakeAuthenticator{users: map[string]*model.User{
		"user-token":  {ID: 1, EmployeeID: "000001", IsActive: true, DepartmentID: &deptID},
		"admin-token": {ID: 2, EmployeeID: "999999", IsActive: true, IsAdmin: true},
	}}
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWTAuth(newFakeAuth()), func(c *gin.Context) {
		dept, _ := c.Get(ContextKeyDepartmentID)
		c.JSON(http.StatusOK, gin.H{
			"user_id":       c.MustGet(ContextKeyUserID),
			"department_id": dept,
		})
	})

	w := doRequest(r, http.MethodGet, "/me", "user-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":1,"department_id":3}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = doRequest(r, http.MethodGet, "/me", "unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "认证信息无效")
}

func TestJWTAuth_BackendError(t *testing.T) {
	r := gin.New()
	r.GET("/me", JWTAuth(&fakeAuthenticator{err: errors.New("db down")}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodGet, "/me", "user-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	r := gin.New()
	r.GET("/posts", OptionalJWTAuth(newFakeAuth()), func(c *gin.Context) {
		_, ok := c.Get(ContextKeyUserID)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	for token, want := range map[string]string{
		"":           `{"authenticated":false}`,
		"bad-token":  `{"authenticated":false}`,
		"user-token": `{"authenticated":true}`,
	} {
		w := doRequest(r, http.MethodGet, "/posts", token)
		assert.Equal(t, http.StatusOK, w.Code, token)
		assert.JSONEq(t, want, w.Body.String(), token)
	}
}

func TestAdminOnly(t *testing.T) {
	r := gin.New()
	r.GET("/admin", JWTAuth(newFakeAuth()), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/bare", AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/admin", "admin-token").Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, http.MethodGet, "/admin", "user-token").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/admin", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, "/bare", "").Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := doRequest(r, http.MethodGet, "/x", "")
	generated := w.Header().Get(requestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("a", requestIDMaxLen+1))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := redis.NewClient(&config.RedisConfig{Addr: mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.POST("/token", RateLimit(rdb, 2, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/token", "").Code)
	assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/token", "").Code)
	w := doRequest(r, http.MethodPost, "/token", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/token", RateLimit(nil, 1, time.Minute, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, http.MethodPost, "/token", "").Code)
	}
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	col := metrics.NewCollector(reg)

	r := gin.New()
	r.Use(Metrics(col))
	r.GET("/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	doRequest(r, http.MethodGet, "/posts/1", "")
	doRequest(r, http.MethodGet, "/posts/2", "")
	doRequest(r, http.MethodGet, "/nowhere", "")

	count, err := testutil.GatherAndCount(reg, "musatoku_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "按路由模板聚合，未匹配路由单独一组")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/x", "")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
