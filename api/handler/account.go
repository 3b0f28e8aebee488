package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/models"
)

// Usage returns a handler for GET /api/v1/usage.
func Usage(sc Scraper, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := sc.UsageStats(c.Request.Context())
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: stats})
	}
}

type creditsRequest struct {
	URL    string `json:"url" binding:"required,url"`
	Render bool   `json:"render"`
	Super  bool   `json:"super"`
}

// Credits returns a handler for POST /api/v1/credits. It never calls
// Scrape.do.
func Credits(sc Scraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body creditsRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}

		req := &models.ScrapeRequest{URL: body.URL}
		if body.Render {
			req.Render = models.Bool(true)
		}
		if body.Super {
			req.Super = models.Bool(true)
		}
		c.JSON(http.StatusOK, models.APIResponse{
			Success: true,
			Data:    models.CreditEstimate{URL: body.URL, Credits: sc.EstimateCredits(req)},
		})
	}
}

// ProxyConfig returns a handler for POST /api/v1/proxy-config. An empty
// body yields the bare proxy URI.
func ProxyConfig(sc Scraper, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			badRequest(c, err)
			return
		}

		proxyURL, err := sc.ProxyConfig(&req)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, models.APIResponse{
			Success: true,
			Data:    models.ProxyConfigResponse{ProxyURL: proxyURL},
		})
	}
}
