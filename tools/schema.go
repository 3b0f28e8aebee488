package tools

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/use-agent/scrapedo-mcp/cleaner"
)

var (
	regionalGeoCodes = []string{"europe", "asia", "africa", "oceania", "northamerica", "southamerica"}
	waitConditions   = []string{"domcontentloaded", "networkidle0", "networkidle2", "load"}
	devices          = []string{"desktop", "mobile", "tablet"}
)

func urlParam(desc string) mcp.ToolOption {
	return mcp.WithString("url", mcp.Required(), mcp.Description(desc))
}

// proxyParams are the geo and session modifiers.
func proxyParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("super", mcp.Description("Use residential & mobile proxy network (Super requests)")),
		mcp.WithString("geoCode", mcp.Description(`Country code for proxy location (defaults to "us" when Super and region unspecified)`)),
		mcp.WithString("regionalGeoCode", mcp.Enum(regionalGeoCodes...), mcp.Description("Regional proxy location")),
		mcp.WithNumber("sessionId", mcp.Min(0), mcp.Max(1000000), mcp.Description("Sticky session ID (0-1000000) for maintaining the same IP")),
	}
}

// headerParams are the header and cookie modifiers.
func headerParams() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithBoolean("customHeaders", mcp.Description("Let Scrape.do add default headers automatically")),
		mcp.WithBoolean("extraHeaders", mcp.Description("Forward extra upstream headers")),
		mcp.WithBoolean("forwardHeaders", mcp.Description("Forward client headers to the target site")),
		mcp.WithString("setCookies", mcp.Description("Send cookies to the target site (use JSON string or cookie header)")),
		mcp.WithBoolean("pureCookies", mcp.Description("Return cookies exactly as sent by the target")),
	}
}

// renderParams are the headless-browser modifiers.
func renderParams(width, height float64) []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("waitUntil", mcp.Enum(waitConditions...), mcp.Description("Wait condition for page load")),
		mcp.WithString("waitSelector", mcp.Description("CSS selector to wait for before capturing")),
		mcp.WithNumber("customWait", mcp.Min(0), mcp.Description("Additional wait time in milliseconds")),
		mcp.WithNumber("width", mcp.DefaultNumber(width), mcp.Description("Browser viewport width (default: 1920)")),
		mcp.WithNumber("height", mcp.DefaultNumber(height), mcp.Description("Browser viewport height (default: 1080)")),
	}
}

// sharedParams are accepted by every general-purpose scraping tool.
func sharedParams() []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("method", mcp.Enum("GET", "POST", "PUT", "DELETE", "HEAD"), mcp.Description("HTTP method (default: GET)")),
		mcp.WithString("body", mcp.Description("Request body for POST/PUT")),
		mcp.WithString("device", mcp.Enum(devices...), mcp.Description("Device type to emulate")),
		mcp.WithNumber("timeout", mcp.Min(5000), mcp.Max(120000), mcp.Description("Request timeout in milliseconds (5000-120000)")),
		mcp.WithNumber("retryTimeout", mcp.Min(5000), mcp.Max(55000), mcp.Description("Retry timeout in milliseconds (5000-55000)")),
		mcp.WithBoolean("disableRetry", mcp.Description("Disable automatic retry on failure")),
		mcp.WithBoolean("disableRedirection", mcp.Description("Disable following redirects")),
	}
	opts = append(opts, proxyParams()...)
	opts = append(opts, headerParams()...)
	return append(opts,
		mcp.WithBoolean("blockResources", mcp.Description("Block images, CSS, fonts to speed up loading")),
		mcp.WithBoolean("blockAds", mcp.Description("Block advertisements")),
		mcp.WithString("callback", mcp.Description("Webhook URL for asynchronous delivery")),
		mcp.WithString("output", mcp.Enum("raw", "markdown"), mcp.Description("Output format (raw HTML/text or markdown)")),
		mcp.WithBoolean("transparentResponse", mcp.Description("Return the origin response body directly with no parsing")),
		mcp.WithBoolean("returnJSON", mcp.Description("Return Scrape.do JSON payload (required for screenshots/frames data)")),
		mcp.WithBoolean("showFrames", mcp.Description("Return iframe/frame metadata (requires returnJSON)")),
		mcp.WithBoolean("showWebsocketRequests", mcp.Description("Return websocket request/response logs (requires returnJSON)")),
		mcp.WithString("playWithBrowser", mcp.Description("JSON-encoded Play-with-Browser action list")),
		mcp.WithBoolean("screenShot", mcp.Description("Capture default viewport screenshot (requires render & returnJSON)")),
		mcp.WithBoolean("fullScreenShot", mcp.Description("Capture full-page screenshot (requires render & returnJSON)")),
		mcp.WithString("particularScreenShot", mcp.Description("Capture CSS selector screenshot")),
	)
}

func tool(name, desc string, groups ...[]mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc)}
	for _, g := range groups {
		opts = append(opts, g...)
	}
	return mcp.NewTool(name, opts...)
}

func scrapeTool() mcp.Tool {
	return tool("scrape", "Basic web scraping without JavaScript rendering",
		[]mcp.ToolOption{urlParam("URL to scrape")}, sharedParams())
}

func scrapeWithJSTool() mcp.Tool {
	return tool("scrape_with_js", "Scrape JavaScript-rendered pages using headless browser",
		[]mcp.ToolOption{
			urlParam("URL to scrape"),
			mcp.WithBoolean("render", mcp.DefaultBool(true), mcp.Description("Enable JavaScript rendering (forced true)")),
		},
		sharedParams(), renderParams(defaultWidth, defaultHeight))
}

func scrapeWithProxyTool() mcp.Tool {
	return tool("scrape_with_proxy", "Scrape through the Scrape.do proxy tunnel, sending the request to the target URL directly",
		[]mcp.ToolOption{
			urlParam("URL to scrape"),
			mcp.WithBoolean("render", mcp.Description("Enable JavaScript rendering")),
		},
		sharedParams(), renderParams(defaultWidth, defaultHeight))
}

func takeScreenshotTool() mcp.Tool {
	return tool("take_screenshot", "Capture webpage screenshots",
		[]mcp.ToolOption{
			urlParam("URL to capture"),
			mcp.WithBoolean("fullPage", mcp.Description("Capture the full scrollable page")),
			mcp.WithString("selector", mcp.Description("CSS selector of the element to capture")),
			mcp.WithString("device", mcp.Enum(devices...), mcp.Description("Device type to emulate")),
			mcp.WithBoolean("blockAds", mcp.Description("Block advertisements")),
			mcp.WithString("callback", mcp.Description("Webhook URL for async delivery")),
			mcp.WithNumber("timeout", mcp.Min(5000), mcp.Max(120000), mcp.Description("Request timeout in milliseconds (5000-120000)")),
		},
		proxyParams(), headerParams(), renderParams(defaultWidth, defaultHeight))
}

func scrapeToMarkdownTool() mcp.Tool {
	return tool("scrape_to_markdown", "Scrape a page and return its content converted to Markdown",
		[]mcp.ToolOption{
			urlParam("URL to convert"),
			mcp.WithBoolean("render", mcp.Description("Enable JavaScript rendering")),
			mcp.WithString("device", mcp.Enum(devices...), mcp.Description("Device type to emulate")),
			mcp.WithNumber("timeout", mcp.Min(5000), mcp.Max(120000), mcp.Description("Request timeout in milliseconds (5000-120000)")),
			mcp.WithNumber("retryTimeout", mcp.Min(5000), mcp.Max(55000), mcp.Description("Retry timeout in milliseconds (5000-55000)")),
			mcp.WithBoolean("disableRedirection", mcp.Description("Disable auto redirect following")),
			mcp.WithBoolean("blockResources", mcp.Description("Block images, CSS, fonts to speed up loading")),
			mcp.WithBoolean("blockAds", mcp.Description("Block advertisements")),
			mcp.WithString("callback", mcp.Description("Webhook URL for async delivery")),
			mcp.WithString("playWithBrowser", mcp.Description("JSON-encoded Play-with-Browser script to run before conversion")),
		},
		proxyParams(), headerParams())
}

func getUsageStatsTool() mcp.Tool {
	return mcp.NewTool("get_usage_stats", mcp.WithDescription("Get API usage statistics and remaining credits"))
}

func generateProxyConfigTool() mcp.Tool {
	return tool("generate_proxy_config", "Generate a Proxy URL carrying Scrape.do parameters, for use as an HTTP proxy in other clients",
		[]mcp.ToolOption{
			mcp.WithBoolean("render", mcp.Description("Enable JavaScript rendering")),
			mcp.WithString("device", mcp.Enum(devices...), mcp.Description("Device type to emulate")),
			mcp.WithString("waitUntil", mcp.Enum(waitConditions...), mcp.Description("Wait condition for page load")),
			mcp.WithBoolean("blockResources", mcp.Description("Block images, CSS, fonts to speed up loading")),
			mcp.WithString("output", mcp.Enum("raw", "markdown"), mcp.Description("Output format")),
		},
		proxyParams(), headerParams())
}

func estimateCreditsTool() mcp.Tool {
	return mcp.NewTool("estimate_credits",
		mcp.WithDescription("Estimate the credit cost of a scrape without performing it"),
		urlParam("URL that would be scraped"),
		mcp.WithBoolean("render", mcp.Description("JavaScript rendering would be enabled")),
		mcp.WithBoolean("super", mcp.Description("Residential & mobile proxies would be used")),
	)
}

func scrapeStructuredTool() mcp.Tool {
	return mcp.NewTool("scrape_structured",
		mcp.WithDescription("Extract structured data (title, headings, links, images, JSON-LD) from a webpage"),
		urlParam("URL to scrape"),
		mcp.WithNumber("maxContentLength", mcp.DefaultNumber(cleaner.DefaultMaxContentLength), mcp.Description("Maximum length of main content to extract (default: 10000)")),
		mcp.WithBoolean("render", mcp.DefaultBool(false), mcp.Description("Enable JavaScript rendering")),
	)
}

func scrapeOptimizedTool() mcp.Tool {
	return mcp.NewTool("scrape_optimized",
		mcp.WithDescription("Agent-optimized web scraping with automatic content management to prevent token limit issues"),
		urlParam("URL to scrape"),
		mcp.WithNumber("maxLength", mcp.DefaultNumber(cleaner.DefaultMaxLength), mcp.Description("Maximum content length to return (default: 50000)")),
		mcp.WithString("format",
			mcp.Enum(cleaner.FormatHTML, cleaner.FormatText, cleaner.FormatMarkdown, cleaner.FormatStructured),
			mcp.DefaultString(cleaner.FormatStructured),
			mcp.Description("Output format - structured is best for agents (default: structured)"),
		),
		mcp.WithBoolean("render", mcp.DefaultBool(false), mcp.Description("Enable JavaScript rendering if needed")),
		mcp.WithString("device", mcp.Enum(devices...), mcp.Description("Device type to emulate")),
		mcp.WithString("waitSelector", mcp.Description("CSS selector to wait for before capturing (JS rendering)")),
		mcp.WithBoolean("enableChunking", mcp.DefaultBool(false), mcp.Description("Enable chunking for large content")),
		mcp.WithNumber("chunkSize", mcp.DefaultNumber(cleaner.DefaultChunkSize), mcp.Description("Size of each chunk if chunking enabled (default: 30000)")),
	)
}

func scrapeSmartTool() mcp.Tool {
	return mcp.NewTool("scrape_smart",
		mcp.WithDescription("AI-optimized scraping that extracts only essential data based on intent"),
		urlParam("URL to scrape"),
		mcp.WithString("intent", mcp.Required(), mcp.Enum(cleaner.Intents...), mcp.Description("What type of content you are looking for")),
		mcp.WithBoolean("render", mcp.DefaultBool(false), mcp.Description("Enable JavaScript rendering if needed")),
	)
}
