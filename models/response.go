package models

// APIScrapeRequest is the payload for POST /api/v1/scrape.
type APIScrapeRequest struct {
	ScrapeRequest

	// UseProxy routes the call through the forward-proxy tunnel instead of
	// the direct API endpoint.
	UseProxy bool `json:"use_proxy,omitempty"`
}

// APIResponse is the envelope of every REST response.
type APIResponse struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// CreditEstimate is the response for POST /api/v1/credits.
type CreditEstimate struct {
	URL     string `json:"url"`
	Credits int    `json:"credits"`
}

// ProxyConfigResponse is the response for POST /api/v1/proxy-config.
type ProxyConfigResponse struct {
	ProxyURL string `json:"proxyUrl"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status        string `json:"status"`
	Uptime        string `json:"uptime"`
	Version       string `json:"version"`
	TokenPresent  bool   `json:"token_present"`
	ProxyEndpoint string `json:"proxy_endpoint"`
}
