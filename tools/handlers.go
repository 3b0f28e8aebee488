package tools

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/use-agent/scrapedo-mcp/cleaner"
	"github.com/use-agent/scrapedo-mcp/models"
)

// prepareScreenshot turns on what every screenshot variant needs: a
// rendered page returned as JSON, with resources loaded unless the caller
// chose otherwise. Conflicting variants are left for validation to reject.
func prepareScreenshot(req *models.ScrapeRequest) {
	if len(req.ActiveScreenshots()) == 0 {
		return
	}
	req.Render = models.Bool(true)
	req.ReturnJSON = models.Bool(true)
	if req.BlockResources == nil {
		req.BlockResources = models.Bool(false)
	}
}

func (h *Handler) scrapeAndFormat(ctx context.Context, tool string, req *models.ScrapeRequest, useProxy bool) (*mcp.CallToolResult, error) {
	prepareScreenshot(req)
	result, err := h.client.Scrape(ctx, req, useProxy)
	if err != nil {
		return h.errorResult(tool, err), nil
	}
	return jsonResult(result, callbackNotice(req.Callback, "final"))
}

func (h *Handler) handleScrape(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.decodeRequest(request)
	if err != nil {
		return h.errorResult("scrape", err), nil
	}
	return h.scrapeAndFormat(ctx, "scrape", req, false)
}

func (h *Handler) handleScrapeWithJS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.decodeRequest(request)
	if err != nil {
		return h.errorResult("scrape_with_js", err), nil
	}
	req.Render = models.Bool(true)
	if req.Width == nil {
		req.Width = models.Int(defaultWidth)
	}
	if req.Height == nil {
		req.Height = models.Int(defaultHeight)
	}
	return h.scrapeAndFormat(ctx, "scrape_with_js", req, false)
}

func (h *Handler) handleScrapeWithProxy(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.decodeRequest(request)
	if err != nil {
		return h.errorResult("scrape_with_proxy", err), nil
	}
	return h.scrapeAndFormat(ctx, "scrape_with_proxy", req, true)
}

func (h *Handler) handleTakeScreenshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fullPage := request.GetBool("fullPage", false)
	selector := request.GetString("selector", "")
	if fullPage && selector != "" {
		return mcp.NewToolResultError("invalid parameters: please choose either fullPage or selector screenshot mode, not both"), nil
	}

	req, err := h.decodeRequest(request, "fullPage", "selector")
	if err != nil {
		return h.errorResult("take_screenshot", err), nil
	}
	req.ScreenShot, req.FullScreenShot, req.ParticularScreenShot = nil, nil, ""
	switch {
	case fullPage:
		req.FullScreenShot = models.Bool(true)
	case selector != "":
		req.ParticularScreenShot = selector
	default:
		req.ScreenShot = models.Bool(true)
	}
	req.BlockResources = models.Bool(false)
	prepareScreenshot(req)

	result, err := h.client.Scrape(ctx, req, false)
	if err != nil {
		return h.errorResult("take_screenshot", err), nil
	}
	return jsonResult(result, callbackNotice(req.Callback, "screenshot"))
}

func (h *Handler) handleScrapeToMarkdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.decodeRequest(request)
	if err != nil {
		return h.errorResult("scrape_to_markdown", err), nil
	}
	req.Output = "markdown"

	result, err := h.client.Scrape(ctx, req, false)
	if err != nil {
		return h.errorResult("scrape_to_markdown", err), nil
	}
	text := result.Markdown
	if text == "" {
		text = result.Text
	}
	return textResult(text, callbackNotice(req.Callback, "markdown")), nil
}

func (h *Handler) handleGetUsageStats(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.client.UsageStats(ctx)
	if err != nil {
		return h.errorResult("get_usage_stats", err), nil
	}
	return jsonResult(stats, "")
}

func (h *Handler) handleGenerateProxyConfig(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.decodeRequest(request)
	if err != nil {
		return h.errorResult("generate_proxy_config", err), nil
	}
	proxyURL, err := h.client.ProxyConfig(req)
	if err != nil {
		return h.errorResult("generate_proxy_config", err), nil
	}
	return jsonResult(models.ProxyConfigResponse{ProxyURL: proxyURL}, "")
}

func (h *Handler) handleEstimateCredits(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("invalid parameters: url: is required"), nil
	}
	req := &models.ScrapeRequest{URL: target}
	if request.GetBool("render", false) {
		req.Render = models.Bool(true)
	}
	if request.GetBool("super", false) {
		req.Super = models.Bool(true)
	}
	return jsonResult(models.CreditEstimate{URL: target, Credits: h.client.EstimateCredits(req)}, "")
}

func (h *Handler) handleScrapeStructured(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("invalid parameters: url: is required"), nil
	}
	req := &models.ScrapeRequest{URL: target, Render: models.Bool(request.GetBool("render", false))}

	result, err := h.client.Scrape(ctx, req, false)
	if err != nil {
		return h.errorResult("scrape_structured", err), nil
	}
	if result.HTML == "" {
		return jsonResult(map[string]any{
			"error":      "No HTML content received",
			"url":        target,
			"statusCode": result.StatusCode,
		}, "")
	}

	page := h.cleaner.Structure(result.HTML, result.URL, request.GetInt("maxContentLength", cleaner.DefaultMaxContentLength))
	return jsonResult(map[string]any{
		"url":        result.URL,
		"statusCode": result.StatusCode,
		"data":       page,
		"metadata": map[string]any{
			"originalLength": utf8.RuneCountInString(result.HTML),
			"extractedAt":    time.Now().UTC().Format(time.RFC3339),
		},
	}, "")
}

func (h *Handler) handleScrapeOptimized(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("invalid parameters: url: is required"), nil
	}
	req := &models.ScrapeRequest{
		URL:          target,
		Render:       models.Bool(request.GetBool("render", false)),
		Device:       request.GetString("device", ""),
		WaitSelector: request.GetString("waitSelector", ""),
	}

	result, err := h.client.Scrape(ctx, req, false)
	if err != nil {
		return h.errorResult("scrape_optimized", err), nil
	}

	optimized, err := h.cleaner.Optimize(result.HTML, result.URL, cleaner.OptimizeOptions{
		Format:       request.GetString("format", cleaner.FormatStructured),
		MaxLength:    request.GetInt("maxLength", cleaner.DefaultMaxLength),
		Chunking:     request.GetBool("enableChunking", false),
		ChunkSize:    request.GetInt("chunkSize", cleaner.DefaultChunkSize),
		ChunkOverlap: cleaner.DefaultChunkOverlap,
	})
	if err != nil {
		return h.errorResult("scrape_optimized", models.NewValidationError("format", err.Error())), nil
	}

	if optimized.Type == "chunked" {
		return jsonResult(map[string]any{
			"type":        "chunked",
			"totalChunks": len(optimized.Chunks),
			"chunks":      optimized.Chunks,
			"metadata":    optimized.Metadata,
			"message":     fmt.Sprintf("Content split into %d chunks.", len(optimized.Chunks)),
		}, "")
	}
	return jsonResult(map[string]any{
		"data":     optimized.Data,
		"metadata": optimized.Metadata,
	}, "")
}

func (h *Handler) handleScrapeSmart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError("invalid parameters: url: is required"), nil
	}
	intent, err := request.RequireString("intent")
	if err != nil {
		return mcp.NewToolResultError("invalid parameters: intent: is required"), nil
	}
	if !validIntent(intent) {
		return h.errorResult("scrape_smart", models.NewValidationError("intent", fmt.Sprintf("must be one of %v", cleaner.Intents))), nil
	}

	result, err := h.client.Scrape(ctx, &models.ScrapeRequest{URL: target, Render: models.Bool(request.GetBool("render", false))}, false)
	if err != nil {
		return h.errorResult("scrape_smart", err), nil
	}
	data, err := h.cleaner.ByIntent(result.HTML, result.URL, intent)
	if err != nil {
		return h.errorResult("scrape_smart", err), nil
	}
	return jsonResult(data, "")
}

func validIntent(intent string) bool {
	for _, i := range cleaner.Intents {
		if i == intent {
			return true
		}
	}
	return false
}
