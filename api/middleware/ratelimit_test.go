package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/use-agent/scrapedo-mcp/config"
)

func TestRateLimitPerIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if k := c.GetHeader("X-API-Key"); k != "" {
			c.Set(CallerKey, k)
		}
	})
	r.Use(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", key)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, hit("a"))
	assert.Equal(t, http.StatusTooManyRequests, hit("a"))
	assert.Equal(t, http.StatusNoContent, hit("b"))
}

func TestLimiterSweep(t *testing.T) {
	set := &limiterSet{cfg: config.RateLimitConfig{RequestsPerSecond: 1, Burst: 1}, limiters: map[string]*limiterEntry{}}
	now := time.Now()
	set.get("old", now.Add(-2*time.Hour))
	set.get("new", now)

	set.sweep(now.Add(-limiterIdleTTL))
	assert.NotContains(t, set.limiters, "old")
	assert.Contains(t, set.limiters, "new")
}

func TestAuthNoKeysIsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth([]string{""}, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
