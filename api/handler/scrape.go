package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/models"
)

// statusClientClosedRequest is the de-facto status for a caller that went
// away before the upstream answered.
const statusClientClosedRequest = 499

// Scraper is the client surface the REST handlers depend on.
type Scraper interface {
	Scrape(ctx context.Context, req *models.ScrapeRequest, useProxy bool) (*models.ScrapeResult, error)
	UsageStats(ctx context.Context) (*models.UsageStats, error)
	EstimateCredits(req *models.ScrapeRequest) int
	ProxyConfig(req *models.ScrapeRequest) (string, error)
}

// Scrape returns a handler for POST /api/v1/scrape.
//
// The body is a ScrapeRequest plus use_proxy. Validation runs inside the
// client, so a malformed request never reaches the network.
func Scrape(sc Scraper, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.APIScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		result, err := sc.Scrape(c.Request.Context(), &req.ScrapeRequest, req.UseProxy)
		if err != nil {
			respondError(c, log, err)
			return
		}
		c.JSON(http.StatusOK, models.APIResponse{Success: true, Data: result})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.APIResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeInvalidInput,
			Message: err.Error(),
		},
	})
}

// respondError maps a client error to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var (
		ve *models.ValidationError
		se *models.ScrapedoError
	)
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, models.APIResponse{Error: ve.ToDetail()})
	case errors.As(err, &se):
		c.JSON(mapErrorToStatus(se), models.APIResponse{Error: se.ToDetail()})
	default:
		_ = c.Error(err)
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.APIResponse{
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeInternal,
				Message: err.Error(),
			},
		})
	}
}

// mapErrorToStatus translates error types to HTTP status codes. Upstream
// auth failures are the facade's configuration problem, not the caller's,
// so they surface as 502 rather than 401.
func mapErrorToStatus(e *models.ScrapedoError) int {
	switch e.Type {
	case models.ErrRateLimit:
		return http.StatusTooManyRequests // 429
	case models.ErrTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrClientCanceled:
		return statusClientClosedRequest // 499
	default:
		return http.StatusBadGateway // 502
	}
}
