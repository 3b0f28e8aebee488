package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/models"
)

// Context keys set by Auth. CallerKey holds the raw facade key and is the
// rate-limit identity; CallerMaskedKey is safe to log.
const (
	CallerKey       = "api_key"
	CallerMaskedKey = "api_key_masked"
)

// Auth guards the facade with its own API keys, accepted as
//
//	X-API-Key: <key>
//	Authorization: Bearer <key>
//
// These keys are unrelated to the Scrape.do token. With no keys configured
// every request passes. Rejections are logged with the key masked.
func Auth(apiKeys []string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	var keys [][]byte
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}
	if len(keys) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		key := callerKey(c.Request)
		if key == "" {
			reject(c, log, "", "missing API key: provide X-API-Key header or Authorization: Bearer <key>")
			return
		}
		if !knownKey(keys, key) {
			reject(c, log, key, "invalid API key")
			return
		}

		c.Set(CallerKey, key)
		c.Set(CallerMaskedKey, logging.MaskToken(key))
		c.Next()
	}
}

// knownKey compares against every key in constant time.
func knownKey(keys [][]byte, key string) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, []byte(key))
	}
	return found == 1
}

func reject(c *gin.Context, log *zap.Logger, key, msg string) {
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.String("client_ip", c.ClientIP()),
		zap.String("reason", msg),
	}
	if key != "" {
		fields = append(fields, zap.String("api_key", logging.MaskToken(key)))
	}
	log.Warn("request rejected", fields...)

	c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeUnauthorized,
			Message: msg,
		},
	})
}

// callerKey reads X-API-Key, then a Bearer credential. The scheme name is
// case-insensitive.
func callerKey(r *http.Request) string {
	if key := strings.TrimSpace(r.Header.Get("X-API-Key")); key != "" {
		return key
	}
	scheme, cred, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(cred)
	}
	return ""
}
