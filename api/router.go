package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/api/handler"
	"github.com/use-agent/scrapedo-mcp/api/middleware"
	"github.com/use-agent/scrapedo-mcp/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and /metrics stay outside auth so probes and scrapers always work.
// A nil gatherer disables the /metrics route.
func NewRouter(sc handler.Scraper, cfg *config.Config, log *zap.Logger, gatherer prometheus.Gatherer, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(log))

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")

	// Health, no auth required.
	v1.GET("/health", handler.Health(handler.HealthInfo{
		TokenPresent:  cfg.Scrapedo.APIKey != "",
		ProxyEndpoint: cfg.Scrapedo.ProxyAddr(),
		StartTime:     startTime,
	}))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys, log))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/scrape", handler.Scrape(sc, log))
	protected.GET("/usage", handler.Usage(sc, log))
	protected.POST("/credits", handler.Credits(sc))
	protected.POST("/proxy-config", handler.ProxyConfig(sc, log))

	return r
}
