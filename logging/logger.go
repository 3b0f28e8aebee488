// Package logging builds the zap loggers injected into the client, the MCP
// tools and the REST facade, and masks secrets before they reach a sink.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/use-agent/scrapedo-mcp/config"
)

// New creates a logger from the LogConfig.
//
// Output goes to stderr: stdout is reserved for the MCP stdio transport.
// A non-empty File adds a second sink. Level "none" returns a no-op logger.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	if strings.EqualFold(cfg.Level, "none") {
		return zap.NewNop(), nil
	}

	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	encoding := "json"
	encoder := zap.NewProductionEncoderConfig()
	if cfg.Format == "text" || cfg.Format == "console" {
		encoding = "console"
		encoder = zap.NewDevelopmentEncoderConfig()
	}
	encoder.EncodeTime = zapcore.ISO8601TimeEncoder

	outputs := []string{"stderr"}
	if cfg.File != "" {
		outputs = append(outputs, cfg.File)
	}

	zc := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		EncoderConfig:     encoder,
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}
	return zc.Build()
}

// NewOrNop falls back to a no-op logger when the configuration is unusable.
func NewOrNop(cfg config.LogConfig) *zap.Logger {
	l, err := New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return l
}
