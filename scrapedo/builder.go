package scrapedo

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/use-agent/scrapedo-mcp/config"
	"github.com/use-agent/scrapedo-mcp/models"
)

// Mode selects how a request reaches Scrape.do.
type Mode int

const (
	// ModeDirect sends the request to the API endpoint with parameters in
	// the query string.
	ModeDirect Mode = iota

	// ModeProxy sends the request to the target through the forward proxy,
	// with parameters in the proxy credentials.
	ModeProxy
)

func (m Mode) String() string {
	if m == ModeProxy {
		return "proxy"
	}
	return "direct"
}

// directParams is the allow-list of modifier names sent upstream. Anything
// else a request carries is dropped silently.
var directParams = map[string]struct{}{
	"render": {}, "super": {}, "geoCode": {}, "regionalGeoCode": {}, "sessionId": {},
	"customHeaders": {}, "extraHeaders": {}, "forwardHeaders": {}, "setCookies": {}, "pureCookies": {},
	"device": {}, "waitUntil": {}, "customWait": {}, "waitSelector": {}, "width": {}, "height": {},
	"blockResources": {}, "blockAds": {}, "screenShot": {}, "fullScreenShot": {}, "particularScreenShot": {},
	"disableRedirection": {}, "callback": {}, "timeout": {}, "retryTimeout": {}, "disableRetry": {},
	"output": {}, "transparentResponse": {}, "returnJSON": {}, "showFrames": {}, "showWebsocketRequests": {},
	"playWithBrowser": {},
}

// Allowed reports whether name is a recognized Scrape.do modifier.
func Allowed(name string) bool {
	_, ok := directParams[name]
	return ok
}

// Descriptor is a fully resolved HTTP exchange, ready for a Transport.
type Descriptor struct {
	Mode   Mode
	Method string

	// URL is the API endpoint with query string (direct) or the target
	// page (proxy).
	URL string

	// ProxyURL carries the token and parameters as proxy credentials.
	// Empty in direct mode.
	ProxyURL string

	Body         string
	Timeout      time.Duration
	MaxRedirects int
}

// RequestBuilder turns validated requests into Descriptors.
type RequestBuilder struct {
	token          string
	endpoint       string
	proxyAddr      string
	defaultTimeout time.Duration
	maxRedirects   int
}

// NewRequestBuilder creates a builder bound to one token.
func NewRequestBuilder(token string, cfg config.ScrapedoConfig) *RequestBuilder {
	return &RequestBuilder{
		token:          token,
		endpoint:       cfg.APIURL,
		proxyAddr:      cfg.ProxyAddr(),
		defaultTimeout: cfg.DefaultTimeout,
		maxRedirects:   cfg.MaxRedirects,
	}
}

// Build produces the Descriptor for the mode chosen by useProxy.
func (b *RequestBuilder) Build(req *models.ScrapeRequest, useProxy bool) (*Descriptor, error) {
	d := &Descriptor{
		Mode:         ModeDirect,
		Method:       req.HTTPMethod(),
		Timeout:      b.defaultTimeout,
		MaxRedirects: b.maxRedirects,
	}
	if req.Timeout != nil {
		d.Timeout = time.Duration(*req.Timeout) * time.Millisecond
	}
	if models.IsSet(req.DisableRedirection) {
		d.MaxRedirects = 0
	}
	if req.HasBody() {
		d.Body = req.Body
	}

	params, err := encodeParams(req.Modifiers())
	if err != nil {
		return nil, err
	}

	if useProxy {
		d.Mode = ModeProxy
		d.URL = req.URL
		d.ProxyURL = b.proxyURL(params)
		return d, nil
	}

	query := url.Values{}
	query.Set("token", b.token)
	query.Set("url", req.URL)
	for k, vs := range params {
		query[k] = vs
	}
	d.URL = b.endpoint + "?" + query.Encode()
	return d, nil
}

// ProxyConfig returns the proxy URI for the request's modifiers. The
// target url is never part of it.
func (b *RequestBuilder) ProxyConfig(req *models.ScrapeRequest) (string, error) {
	params, err := encodeParams(req.Modifiers())
	if err != nil {
		return "", err
	}
	return b.proxyURL(params), nil
}

func (b *RequestBuilder) proxyURL(params url.Values) string {
	auth := b.token
	if encoded := params.Encode(); encoded != "" {
		auth += ":" + encoded
	}
	return "http://" + auth + "@" + b.proxyAddr
}

// encodeParams serializes allow-listed modifiers: booleans as "true" or
// "false", objects and arrays as compact JSON, everything else with its
// default string form.
func encodeParams(mods []models.Modifier) (url.Values, error) {
	params := url.Values{}
	for _, m := range mods {
		if !Allowed(m.Name) {
			continue
		}
		s, err := formatValue(m.Value)
		if err != nil {
			return nil, fmt.Errorf("scrapedo: encode %s: %w", m.Name, err)
		}
		params.Set(m.Name, s)
	}
	return params, nil
}

func formatValue(v any) (string, error) {
	switch val := v.(type) {
	case bool:
		return strconv.FormatBool(val), nil
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case []map[string]any, map[string]any, []any:
		out, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return fmt.Sprint(val), nil
	}
}
