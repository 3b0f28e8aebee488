package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const facadeKey = "facade-key-0123456789"

func authRouter(log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth([]string{facadeKey}, log))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CallerMaskedKey))
	})
	return r
}

func TestAuthAcceptsKeyHeaders(t *testing.T) {
	r := authRouter(nil)

	tests := []struct {
		name   string
		header string
		value  string
	}{
		{"x-api-key", "X-API-Key", facadeKey},
		{"bearer", "Authorization", "Bearer " + facadeKey},
		{"lowercase scheme", "Authorization", "bearer " + facadeKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, tt.value)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "faca***6789", w.Body.String())
		})
	}
}

func TestAuthRejectionLoggedMasked(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := authRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "wrong-key-abcdefghij")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	entries := logs.FilterMessage("request rejected").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "wron***ghij", fields["api_key"])
	assert.Equal(t, "invalid API key", fields["reason"])
	assert.NotContains(t, entries[0].Context, zap.String("api_key", "wrong-key-abcdefghij"))
}

func TestAuthMissingKey(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r := authRouter(zap.New(core))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	entries := logs.FilterMessage("request rejected").All()
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].ContextMap(), "api_key")
}
