package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Version is reported by the health endpoint and the MCP handshake.
const Version = "0.1.0"

// Config holds all application configuration.
type Config struct {
	Scrapedo  ScrapedoConfig
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// ScrapedoConfig controls the upstream Scrape.do client.
type ScrapedoConfig struct {
	// APIKey is the Scrape.do token. Required by every serving command.
	APIKey string `envconfig:"SCRAPEDO_API_KEY"`

	// APIURL is the direct-API endpoint.
	APIURL string `envconfig:"SCRAPEDO_API_URL" default:"https://api.scrape.do"`

	// InfoURL is the account usage endpoint.
	InfoURL string `envconfig:"SCRAPEDO_INFO_URL" default:"https://api.scrape.do/info"`

	ProxyHost string `envconfig:"SCRAPEDO_PROXY_HOST" default:"proxy.scrape.do"`
	ProxyPort int    `envconfig:"SCRAPEDO_PROXY_PORT" default:"8080"`

	// DefaultTimeout applies when a request carries no timeout of its own.
	DefaultTimeout time.Duration `envconfig:"SCRAPEDO_DEFAULT_TIMEOUT" default:"60s"`

	// MaxRedirects is followed unless a request sets disableRedirection.
	MaxRedirects int `envconfig:"SCRAPEDO_MAX_REDIRECTS" default:"5"`

	// InsecureTunnel skips TLS peer verification on the proxy tunnel hop.
	// Scrape.do re-signs target certificates, so verification fails by default.
	InsecureTunnel bool `envconfig:"SCRAPEDO_INSECURE_TUNNEL" default:"true"`
}

// ProxyAddr returns host:port of the forward proxy.
func (c ScrapedoConfig) ProxyAddr() string {
	return c.ProxyHost + ":" + strconv.Itoa(c.ProxyPort)
}

// ServerConfig controls the REST facade.
type ServerConfig struct {
	Host string `envconfig:"SCRAPEDO_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SCRAPEDO_PORT" default:"8080"`
	Mode string `envconfig:"SCRAPEDO_MODE" default:"release"` // "debug", "release", "test"
}

// AuthConfig controls API key authentication of the REST facade.
type AuthConfig struct {
	Enabled bool     `envconfig:"SCRAPEDO_AUTH_ENABLED" default:"true"`
	APIKeys []string `envconfig:"SCRAPEDO_API_KEYS"`
}

// RateLimitConfig controls per-key rate limiting of the REST facade.
type RateLimitConfig struct {
	RequestsPerSecond float64 `envconfig:"SCRAPEDO_RATE_RPS" default:"5"`
	Burst             int     `envconfig:"SCRAPEDO_RATE_BURST" default:"10"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"` // debug, info, warn, error, none
	Format string `envconfig:"LOG_FORMAT" default:"json"`
	File   string `envconfig:"LOG_FILE"`
}

// TelemetryConfig controls OpenTelemetry tracing of outbound calls.
type TelemetryConfig struct {
	Tracing     bool   `envconfig:"SCRAPEDO_TRACING" default:"false"`
	ServiceName string `envconfig:"SCRAPEDO_SERVICE_NAME" default:"scrapedo-mcp"`

	// OTLP/HTTP traces endpoint, e.g. http://localhost:4318/v1/traces.
	// Empty defers to the exporter's OTEL_EXPORTER_OTLP_* variables.
	OTLPEndpoint string            `envconfig:"SCRAPEDO_OTLP_ENDPOINT"`
	OTLPHeaders  map[string]string `envconfig:"SCRAPEDO_OTLP_HEADERS"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: load: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Scrapedo: ScrapedoConfig{
			APIURL:         "https://api.scrape.do",
			InfoURL:        "https://api.scrape.do/info",
			ProxyHost:      "proxy.scrape.do",
			ProxyPort:      8080,
			DefaultTimeout: 60 * time.Second,
			MaxRedirects:   5,
			InsecureTunnel: true,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Mode: "release",
		},
		Auth: AuthConfig{
			Enabled: true,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 5,
			Burst:             10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "scrapedo-mcp",
		},
	}
}

// RequireAPIKey fails when the Scrape.do token is missing.
func (c *Config) RequireAPIKey() error {
	if c.Scrapedo.APIKey == "" {
		return fmt.Errorf("SCRAPEDO_API_KEY environment variable is required")
	}
	return nil
}
