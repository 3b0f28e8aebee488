package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/metrics"
	"github.com/use-agent/scrapedo-mcp/scrapedo"
	"github.com/use-agent/scrapedo-mcp/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "scrapedo",
	Short:         "scrapedo exposes the Scrape.do web scraping API to MCP clients and over REST.",
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is what every serving command needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	client *scrapedo.Client
	tel    *telemetry.Telemetry
}

// close flushes pending spans and log entries.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	defer cancel()
	if err := a.tel.Shutdown(ctx); err != nil {
		a.log.Warn("telemetry shutdown failed", zap.Error(err))
	}
	_ = a.log.Sync()
}

const telemetryFlushTimeout = 5 * time.Second

// loadRuntime reads the environment, builds the logger, starts tracing when
// enabled and creates a client. reg, when non-nil, receives the client metrics.
func loadRuntime(ctx context.Context, reg prometheus.Registerer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}

	opts := []scrapedo.Option{
		scrapedo.WithLogger(log),
		scrapedo.WithOutboundTracing(cfg.Telemetry.Tracing),
	}
	if reg != nil {
		opts = append(opts, scrapedo.WithMetrics(metrics.New(reg)))
	}
	client, err := scrapedo.NewClient(cfg.Scrapedo, opts...)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, client: client, tel: tel}, nil
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(cmd.OutOrStdout())
	return t
}
