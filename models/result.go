package models

// ScrapeResult is the normalized outcome of a successful scrape.
//
// At most one primary content field (HTML, Markdown, NetworkData) is set,
// chosen by the output mode of the request.
type ScrapeResult struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	URL        string `json:"url"`

	HTML        string            `json:"html,omitempty"`
	Text        string            `json:"text,omitempty"`
	Markdown    string            `json:"markdown,omitempty"`
	Screenshot  string            `json:"screenshot,omitempty"`
	NetworkData any               `json:"networkData,omitempty"`
	Frames      any               `json:"frames,omitempty"`
	Websockets  any               `json:"websockets,omitempty"`
	Cookies     []string          `json:"cookies,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`

	Metadata *ResultMetadata `json:"metadata,omitempty"`
}

// ResultMetadata carries call bookkeeping that is not part of the page.
type ResultMetadata struct {
	ExecutionTimeMs  int64      `json:"executionTime"`
	EstimatedCredits int        `json:"creditsUsed"`
	Proxy            *ProxyInfo `json:"proxyUsed,omitempty"`
}

// ProxyInfo describes the egress used for a scrape.
type ProxyInfo struct {
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
}

// UsageStats is the flat view of the account info endpoint.
type UsageStats struct {
	RemainingCredits int `json:"remainingCredits"`
	UsedCredits      int `json:"usedCredits"`
	ConcurrencyLimit int `json:"concurrencyLimit"`
	RequestsToday    int `json:"requestsToday"`
}
