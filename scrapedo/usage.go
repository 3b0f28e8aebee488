package scrapedo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/use-agent/scrapedo-mcp/models"
)

const defaultConcurrencyLimit = 10

// infoPayload mirrors the account info endpoint. Missing numbers decode as
// zero and are then defaulted.
type infoPayload struct {
	RemainingCredits int `json:"remaining_credits"`
	UsedCredits      int `json:"used_credits"`
	ConcurrencyLimit int `json:"concurrency_limit"`
	RequestsToday    int `json:"requests_today"`
}

// usageDescriptor builds the read-only info call.
func (b *RequestBuilder) usageDescriptor(infoURL string) *Descriptor {
	return &Descriptor{
		Mode:         ModeDirect,
		Method:       http.MethodGet,
		URL:          strings.TrimRight(infoURL, "/") + "/?token=" + url.QueryEscape(b.token),
		Timeout:      b.defaultTimeout,
		MaxRedirects: b.maxRedirects,
	}
}

// parseUsage maps the info body to flat stats.
func parseUsage(body []byte) (*models.UsageStats, error) {
	var p infoPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("scrapedo: decode usage: %w", err)
	}
	stats := &models.UsageStats{
		RemainingCredits: p.RemainingCredits,
		UsedCredits:      p.UsedCredits,
		ConcurrencyLimit: p.ConcurrencyLimit,
		RequestsToday:    p.RequestsToday,
	}
	if stats.ConcurrencyLimit == 0 {
		stats.ConcurrencyLimit = defaultConcurrencyLimit
	}
	return stats, nil
}
