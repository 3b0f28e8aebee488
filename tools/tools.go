// Package tools exposes the Scrape.do client as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/cleaner"
	"github.com/use-agent/scrapedo-mcp/logging"
	"github.com/use-agent/scrapedo-mcp/models"
)

const (
	defaultWidth  = 1920
	defaultHeight = 1080
)

// Scraper is the client surface the tools depend on.
type Scraper interface {
	Scrape(ctx context.Context, req *models.ScrapeRequest, useProxy bool) (*models.ScrapeResult, error)
	UsageStats(ctx context.Context) (*models.UsageStats, error)
	EstimateCredits(req *models.ScrapeRequest) int
	ProxyConfig(req *models.ScrapeRequest) (string, error)
}

// Handler implements every tool on top of a Scraper.
type Handler struct {
	client  Scraper
	cleaner *cleaner.Cleaner
	log     *zap.Logger
}

// NewHandler creates a Handler. A nil cleaner or logger gets a default.
func NewHandler(client Scraper, cl *cleaner.Cleaner, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if cl == nil {
		cl = cleaner.NewCleaner(log)
	}
	return &Handler{client: client, cleaner: cl, log: log}
}

// Tools returns every tool definition paired with its handler.
func (h *Handler) Tools() []server.ServerTool {
	defs := []struct {
		tool mcp.Tool
		fn   server.ToolHandlerFunc
	}{
		{scrapeTool(), h.handleScrape},
		{scrapeWithJSTool(), h.handleScrapeWithJS},
		{scrapeWithProxyTool(), h.handleScrapeWithProxy},
		{takeScreenshotTool(), h.handleTakeScreenshot},
		{scrapeToMarkdownTool(), h.handleScrapeToMarkdown},
		{getUsageStatsTool(), h.handleGetUsageStats},
		{generateProxyConfigTool(), h.handleGenerateProxyConfig},
		{estimateCreditsTool(), h.handleEstimateCredits},
		{scrapeStructuredTool(), h.handleScrapeStructured},
		{scrapeOptimizedTool(), h.handleScrapeOptimized},
		{scrapeSmartTool(), h.handleScrapeSmart},
	}

	out := make([]server.ServerTool, 0, len(defs))
	for _, d := range defs {
		out = append(out, server.ServerTool{Tool: d.tool, Handler: h.logged(d.tool.Name, d.fn)})
	}
	return out
}

// NewServer builds an MCP server with every tool registered.
func NewServer(name, version string, h *Handler) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTools(h.Tools()...)
	return s
}

// logged wraps fn with request, response and error logging.
func (h *Handler) logged(name string, fn server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		h.log.Debug("tool request", zap.String("tool", name), argsField(req))

		res, err := fn(ctx, req)
		elapsed := time.Since(start)
		if err != nil {
			h.log.Error("tool failed", zap.String("tool", name), zap.Error(err), zap.Duration("elapsed", elapsed))
			return res, err
		}
		h.log.Info("tool response",
			zap.String("tool", name),
			zap.Bool("is_error", res != nil && res.IsError),
			zap.Duration("elapsed", elapsed),
		)
		return res, nil
	}
}

func argsField(req mcp.CallToolRequest) zap.Field {
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return zap.Skip()
	}
	return logging.Payload("args", string(raw))
}

// errorResult converts err to a tool error. Classified upstream errors
// carry their billing and retry hints as JSON.
func (h *Handler) errorResult(tool string, err error) *mcp.CallToolResult {
	var (
		ve *models.ValidationError
		se *models.ScrapedoError
	)
	switch {
	case errors.As(err, &ve):
		h.log.Debug("tool error", zap.String("tool", tool), zap.Error(ve))
		return mcp.NewToolResultError(ve.Error())
	case errors.As(err, &se):
		h.log.Warn("tool error",
			zap.String("tool", tool),
			zap.Int("status", se.StatusCode),
			zap.String("error_type", string(se.Type)),
			zap.Any("details", se.Details),
		)
		payload, mErr := json.MarshalIndent(struct {
			Error string `json:"error"`
			*models.ScrapedoError
		}{se.Summary(), se}, "", "  ")
		if mErr != nil {
			return mcp.NewToolResultError(se.Summary())
		}
		return mcp.NewToolResultError(string(payload))
	default:
		h.log.Warn("tool error", zap.String("tool", tool), zap.Error(err))
		return mcp.NewToolResultError(err.Error())
	}
}

// jsonResult renders v as indented JSON text, with an optional notice
// appended as a second content block.
func jsonResult(v any, notice string) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(out), notice), nil
}

func textResult(text, notice string) *mcp.CallToolResult {
	res := mcp.NewToolResultText(text)
	if notice != "" {
		res.Content = append(res.Content, mcp.NewTextContent(notice))
	}
	return res
}

func callbackNotice(callback, what string) string {
	if callback == "" {
		return ""
	}
	return fmt.Sprintf("Callback registered: Scrape.do will POST the %s payload to %s", what, callback)
}
