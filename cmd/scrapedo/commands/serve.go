package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/api"
)

const shutdownGrace = 5 * time.Second

var serveFlags struct {
	host string
	port int
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.host, "host", "", "listen host (default SCRAPEDO_HOST)")
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0, "listen port (default SCRAPEDO_PORT)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST facade.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		rt, err := loadRuntime(cmd.Context(), reg)
		if err != nil {
			return err
		}
		defer rt.close()

		if serveFlags.host != "" {
			rt.cfg.Server.Host = serveFlags.host
		}
		if serveFlags.port != 0 {
			rt.cfg.Server.Port = serveFlags.port
		}

		router := api.NewRouter(rt.client, rt.cfg, rt.log, reg, time.Now())
		addr := fmt.Sprintf("%s:%d", rt.cfg.Server.Host, rt.cfg.Server.Port)
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			rt.log.Info("HTTP server listening",
				zap.String("addr", addr),
				zap.Bool("auth", rt.cfg.Auth.Enabled),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case <-cmd.Context().Done():
		}
		rt.log.Info("shutdown signal received")

		// Give in-flight scrapes a moment to complete.
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			rt.log.Error("HTTP server forced shutdown", zap.Error(err))
			return err
		}
		rt.log.Info("HTTP server drained gracefully")
		return nil
	},
}
