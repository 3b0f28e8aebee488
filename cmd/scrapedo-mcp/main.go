// Command scrapedo-mcp serves the Scrape.do tools over MCP stdio.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/cleaner"
	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/scrapedo"
	"github.com/use-agent/scrapedo-mcp/telemetry"
	"github.com/use-agent/scrapedo-mcp/tools"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	_ = log.Sync()
}

func run(cfg *config.Config, log *zap.Logger) error {
	tel, err := telemetry.Setup(context.Background(), cfg.Telemetry, log)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(ctx); err != nil {
			log.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	client, err := scrapedo.NewClient(cfg.Scrapedo,
		scrapedo.WithLogger(log),
		scrapedo.WithOutboundTracing(cfg.Telemetry.Tracing),
	)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	h := tools.NewHandler(client, cleaner.NewCleaner(log), log)
	s := tools.NewServer("scrapedo", config.Version, h)

	log.Info("scrapedo mcp server starting",
		zap.String("token", logging.MaskToken(cfg.Scrapedo.APIKey)),
		zap.String("version", config.Version),
	)
	return server.ServeStdio(s)
}
