package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/models"
)

// HealthInfo is the static part of the health report.
type HealthInfo struct {
	TokenPresent  bool
	ProxyEndpoint string
	StartTime     time.Time
}

// Health returns a handler for GET /api/v1/health.
//
// Status degrades when no Scrape.do token is configured, since every
// scrape would then fail before reaching the network.
func Health(info HealthInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "healthy"
		if !info.TokenPresent {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:        status,
			Uptime:        time.Since(info.StartTime).Round(time.Second).String(),
			Version:       config.Version,
			TokenPresent:  info.TokenPresent,
			ProxyEndpoint: info.ProxyEndpoint,
		})
	}
}
