package scrapedo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/metrics"
	"github.com/use-agent/scrapedo-mcp/models"
)

// ErrMissingToken is returned by NewClient when no API key is configured.
var ErrMissingToken = errors.New("scrapedo: api key is required")

// Client is the entry point to Scrape.do. It holds only the immutable token
// and configuration; every call is independent.
type Client struct {
	cfg       config.ScrapedoConfig
	builder   *RequestBuilder
	transport Transport
	log       *zap.Logger
	metrics   *metrics.Metrics
	tracing   bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the base logger. Each call derives a scoped child.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithMetrics records call outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithOutboundTracing wraps the default transport with OpenTelemetry.
// Ignored when WithTransport is also given.
func WithOutboundTracing(enabled bool) Option {
	return func(c *Client) { c.tracing = enabled }
}

// NewClient creates a client for cfg.APIKey.
func NewClient(cfg config.ScrapedoConfig, opts ...Option) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingToken
	}
	c := &Client{
		cfg:     cfg,
		builder: NewRequestBuilder(cfg.APIKey, cfg),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(
			WithInsecureTunnel(cfg.InsecureTunnel),
			WithTracing(c.tracing),
		)
	}
	c.log.Debug("scrapedo client initialized",
		zap.String("token", logging.MaskToken(cfg.APIKey)),
		zap.String("api_url", cfg.APIURL),
		zap.String("proxy", cfg.ProxyAddr()),
	)
	return c, nil
}

// Scrape validates req, performs one exchange and returns either a
// complete result or a single error: *models.ValidationError before any
// network call, *models.ScrapedoError for classified upstream failures.
func (c *Client) Scrape(ctx context.Context, req *models.ScrapeRequest, useProxy bool) (*models.ScrapeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	desc, err := c.builder.Build(req, useProxy)
	if err != nil {
		return nil, err
	}

	mode := desc.Mode.String()
	log := c.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("mode", mode),
		zap.String("target", req.URL),
	)
	log.Info("scrape started", zap.String("method", desc.Method))

	start := time.Now()
	raw, err := c.transport.Do(ctx, desc, log)
	elapsed := time.Since(start)
	if err != nil {
		err = Classify(err)
		var se *models.ScrapedoError
		if errors.As(err, &se) {
			log.Warn("scrape failed",
				zap.Int("status", se.StatusCode),
				zap.String("error_type", string(se.Type)),
				zap.Bool("retryable", se.Retryable),
				zap.Bool("consumed_credits", se.ConsumedCredits),
				zap.Duration("elapsed", elapsed),
			)
			c.metrics.ObserveFailure(mode, string(se.Type), elapsed, se.ConsumedCredits)
		}
		return nil, err
	}

	result := Normalize(raw, req)
	credits := EstimateCredits(req)
	result.Metadata = &models.ResultMetadata{
		ExecutionTimeMs:  elapsed.Milliseconds(),
		EstimatedCredits: credits,
		Proxy:            proxyInfo(req),
	}

	log.Info("scrape completed",
		zap.Int("status", result.StatusCode),
		zap.Bool("has_html", result.HTML != ""),
		zap.Bool("has_markdown", result.Markdown != ""),
		zap.Bool("has_screenshot", result.Screenshot != ""),
		zap.Duration("elapsed", elapsed),
	)
	c.metrics.ObserveSuccess(mode, elapsed, credits)
	return result, nil
}

// UsageStats reads account usage from the info endpoint.
func (c *Client) UsageStats(ctx context.Context) (*models.UsageStats, error) {
	log := c.log.With(zap.String("request_id", uuid.NewString()), zap.String("mode", "usage"))
	raw, err := c.transport.Do(ctx, c.builder.usageDescriptor(c.cfg.InfoURL), log)
	if err != nil {
		return nil, Classify(err)
	}
	stats, err := parseUsage(raw.Body)
	if err != nil {
		return nil, err
	}
	log.Info("usage statistics retrieved",
		zap.Int("remaining_credits", stats.RemainingCredits),
		zap.Int("used_credits", stats.UsedCredits),
	)
	return stats, nil
}

// EstimateCredits returns the local cost estimate for req without any
// network call.
func (c *Client) EstimateCredits(req *models.ScrapeRequest) int {
	return EstimateCredits(req)
}

// ProxyConfig returns the proxy URI carrying req's modifiers. The request
// url is not required.
func (c *Client) ProxyConfig(req *models.ScrapeRequest) (string, error) {
	if err := req.ValidateModifiers(); err != nil {
		return "", err
	}
	return c.builder.ProxyConfig(req)
}

// ProxyAddr returns host:port of the forward proxy.
func (c *Client) ProxyAddr() string {
	return c.cfg.ProxyAddr()
}

func proxyInfo(req *models.ScrapeRequest) *models.ProxyInfo {
	info := &models.ProxyInfo{Type: "datacenter", Location: req.GeoCode}
	if models.IsSet(req.Super) {
		info.Type = "residential"
	}
	if info.Location == "" {
		info.Location = req.RegionalGeoCode
	}
	return info
}
