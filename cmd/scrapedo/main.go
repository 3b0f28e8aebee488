// Command scrapedo runs the Scrape.do MCP server, the REST facade and a few
// account helpers.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/use-agent/scrapedo-mcp/cmd/scrapedo/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx)
}
