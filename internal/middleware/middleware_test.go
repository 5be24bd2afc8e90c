package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-hub-api/internal/models"
	"github.com/noah-isme/campus-hub-api/internal/service"
)

type staticParser map[string]models.AccessToken

func (p staticParser) ParseToken(raw string) models.AccessToken {
	return p[raw]
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	parser := staticParser{
		"Bearer limited": {UserID: "u-lim", Scopes: []models.Scope{models.ScopeFactrakLimited}, Level: models.LevelAuthenticated},
		"Bearer admin":   {UserID: "u-admin", Scopes: []models.Scope{models.ScopeFactrakAdmin}, Level: models.LevelAuthenticated},
		"Bearer guest":   {Scopes: []models.Scope{models.ScopeFactrakAdmin}, Level: 1},
	}
	r.Use(Authenticate(parser))
	chain := append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Any("/resource", chain...)
	return r
}

func do(r http.Handler, method, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/resource", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestAuthenticateStoresZeroTokenForAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var seen *models.AccessToken
	r.Use(Authenticate(staticParser{}))
	r.GET("/resource", func(c *gin.Context) {
		seen = Token(c)
		c.Status(http.StatusNoContent)
	})

	w := do(r, http.MethodGet, "Bearer whatever")
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, seen)
	assert.Equal(t, models.AccessToken{}, *seen)
}

func TestTokenWithoutAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Token(c))

	c.Set(ContextTokenKey, "not a token")
	assert.Nil(t, Token(c))
}

func TestRequireScope(t *testing.T) {
	r := newEngine(RequireScope(models.ScopeFactrakAdmin, models.ScopeAdminAll))

	w := do(r, http.MethodGet, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, w))

	w = do(r, http.MethodGet, "Bearer guest")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodGet, "Bearer limited")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	w = do(r, http.MethodGet, "Bearer admin")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthenticated(t *testing.T) {
	r := newEngine(RequireAuthenticated())

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "Bearer guest").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "Bearer limited").Code)
}

type countingLimiter struct {
	allowed int
	keys    []string
}

func (l *countingLimiter) Allow(key string) bool {
	l.keys = append(l.keys, key)
	if l.allowed <= 0 {
		return false
	}
	l.allowed--
	return true
}

func TestRateLimitWrites(t *testing.T) {
	limiter := &countingLimiter{allowed: 1}
	r := newEngine(RateLimitWrites(limiter))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "Bearer limited").Code)

	w := do(r, http.MethodPost, "Bearer limited")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", errorCode(t, w))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "Bearer limited").Code)
	assert.Equal(t, []string{"user:u-lim", "user:u-lim"}, limiter.keys)

	do(r, http.MethodDelete, "")
	require.Len(t, limiter.keys, 3)
	assert.Contains(t, limiter.keys[2], "ip:")
}

func TestMetricsMiddlewareRecordsRoutes(t *testing.T) {
	metrics := service.NewMetricsService()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/resource/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/resource/42", nil))
	require.Equal(t, http.StatusOK, w.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `http_requests_total{method="GET",path="/resource/:id",status="200"} 1`)
}
