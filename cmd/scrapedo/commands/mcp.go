package commands

import (
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/cleaner"
	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/tools"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the Scrape.do tools over MCP stdio.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer rt.close()

		h := tools.NewHandler(rt.client, cleaner.NewCleaner(rt.log), rt.log)
		s := tools.NewServer("scrapedo", config.Version, h)

		rt.log.Info("scrapedo mcp server starting",
			zap.String("token", logging.MaskToken(rt.cfg.Scrapedo.APIKey)),
			zap.String("log_level", rt.cfg.Log.Level),
		)
		return server.NewStdioServer(s).Listen(cmd.Context(), os.Stdin, os.Stdout)
	},
}
