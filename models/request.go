package models

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// ScrapeRequest is a single scrape call against Scrape.do.
//
// Every modifier is optional; nil pointers and empty strings mean "not set"
// and are never sent upstream. JSON names are the Scrape.do parameter names.
type ScrapeRequest struct {
	// URL is the target page. Required, absolute.
	URL string `json:"url" validate:"required,url"`

	// Method is the HTTP verb of the scrape. Default: GET.
	Method string `json:"method,omitempty" validate:"omitempty,oneof=GET POST PUT DELETE HEAD"`

	// Body is sent for methods that carry one.
	Body string `json:"body,omitempty"`

	// ── Rendering ───────────────────────────────────────────────────
	Render         *bool  `json:"render,omitempty"`
	WaitUntil      string `json:"waitUntil,omitempty" validate:"omitempty,oneof=domcontentloaded networkidle0 networkidle2 load"`
	WaitSelector   string `json:"waitSelector,omitempty"`
	CustomWait     *int   `json:"customWait,omitempty" validate:"omitempty,min=0"`
	Width          *int   `json:"width,omitempty" validate:"omitempty,min=1"`
	Height         *int   `json:"height,omitempty" validate:"omitempty,min=1"`
	BlockResources *bool  `json:"blockResources,omitempty"`
	BlockAds       *bool  `json:"blockAds,omitempty"`
	Device         string `json:"device,omitempty" validate:"omitempty,oneof=desktop mobile tablet"`

	// ── Proxy / geo ─────────────────────────────────────────────────
	Super           *bool  `json:"super,omitempty"`
	GeoCode         string `json:"geoCode,omitempty"`
	RegionalGeoCode string `json:"regionalGeoCode,omitempty" validate:"omitempty,oneof=europe asia africa oceania northamerica southamerica"`
	SessionID       *int   `json:"sessionId,omitempty" validate:"omitempty,min=0,max=1000000"`

	// ── Header / cookie control ─────────────────────────────────────
	CustomHeaders  *bool  `json:"customHeaders,omitempty"`
	ExtraHeaders   *bool  `json:"extraHeaders,omitempty"`
	ForwardHeaders *bool  `json:"forwardHeaders,omitempty"`
	SetCookies     string `json:"setCookies,omitempty"`
	PureCookies    *bool  `json:"pureCookies,omitempty"`

	// ── Screenshots (at most one variant) ───────────────────────────
	ScreenShot           *bool  `json:"screenShot,omitempty"`
	FullScreenShot       *bool  `json:"fullScreenShot,omitempty"`
	ParticularScreenShot string `json:"particularScreenShot,omitempty"`

	// ── Output shaping ──────────────────────────────────────────────
	Output                string `json:"output,omitempty" validate:"omitempty,oneof=raw markdown"`
	TransparentResponse   *bool  `json:"transparentResponse,omitempty"`
	ReturnJSON            *bool  `json:"returnJSON,omitempty"`
	ShowFrames            *bool  `json:"showFrames,omitempty"`
	ShowWebsocketRequests *bool  `json:"showWebsocketRequests,omitempty"`

	// ── Timing / retry (milliseconds) ───────────────────────────────
	Timeout      *int  `json:"timeout,omitempty" validate:"omitempty,min=5000,max=120000"`
	RetryTimeout *int  `json:"retryTimeout,omitempty" validate:"omitempty,min=5000,max=55000"`
	DisableRetry *bool `json:"disableRetry,omitempty"`

	DisableRedirection *bool `json:"disableRedirection,omitempty"`

	// Callback is a webhook URL Scrape.do POSTs the final payload to.
	Callback string `json:"callback,omitempty" validate:"omitempty,url"`

	// PlayWithBrowser is a browser-automation script run before capture.
	PlayWithBrowser *BrowserScript `json:"playWithBrowser,omitempty"`
}

// HTTPMethod returns the effective verb (GET when unset).
func (r *ScrapeRequest) HTTPMethod() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// HasBody reports whether the body should be attached to the outbound request.
func (r *ScrapeRequest) HasBody() bool {
	if r.Body == "" {
		return false
	}
	switch r.HTTPMethod() {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

// ActiveScreenshots returns the parameter names of the screenshot variants
// that are turned on.
func (r *ScrapeRequest) ActiveScreenshots() []string {
	var active []string
	if IsSet(r.ScreenShot) {
		active = append(active, "screenShot")
	}
	if IsSet(r.FullScreenShot) {
		active = append(active, "fullScreenShot")
	}
	if r.ParticularScreenShot != "" {
		active = append(active, "particularScreenShot")
	}
	return active
}

// Modifier is one named Scrape.do parameter with its typed value.
type Modifier struct {
	Name  string
	Value any
}

// Modifiers lists every set modifier in declaration order. URL, Method and
// Body are never included: they configure the HTTP exchange itself.
func (r *ScrapeRequest) Modifiers() []Modifier {
	var mods []Modifier
	addBool := func(name string, v *bool) {
		if v != nil {
			mods = append(mods, Modifier{name, *v})
		}
	}
	addInt := func(name string, v *int) {
		if v != nil {
			mods = append(mods, Modifier{name, *v})
		}
	}
	addString := func(name, v string) {
		if v != "" {
			mods = append(mods, Modifier{name, v})
		}
	}

	addBool("render", r.Render)
	addBool("super", r.Super)
	addString("geoCode", r.GeoCode)
	addString("regionalGeoCode", r.RegionalGeoCode)
	addInt("sessionId", r.SessionID)
	addBool("customHeaders", r.CustomHeaders)
	addBool("extraHeaders", r.ExtraHeaders)
	addBool("forwardHeaders", r.ForwardHeaders)
	addString("setCookies", r.SetCookies)
	addBool("pureCookies", r.PureCookies)
	addString("device", r.Device)
	addString("waitUntil", r.WaitUntil)
	addInt("customWait", r.CustomWait)
	addString("waitSelector", r.WaitSelector)
	addInt("width", r.Width)
	addInt("height", r.Height)
	addBool("blockResources", r.BlockResources)
	addBool("blockAds", r.BlockAds)
	addBool("screenShot", r.ScreenShot)
	addBool("fullScreenShot", r.FullScreenShot)
	addString("particularScreenShot", r.ParticularScreenShot)
	addBool("disableRedirection", r.DisableRedirection)
	addString("callback", r.Callback)
	addInt("timeout", r.Timeout)
	addInt("retryTimeout", r.RetryTimeout)
	addBool("disableRetry", r.DisableRetry)
	addString("output", r.Output)
	addBool("transparentResponse", r.TransparentResponse)
	addBool("returnJSON", r.ReturnJSON)
	addBool("showFrames", r.ShowFrames)
	addBool("showWebsocketRequests", r.ShowWebsocketRequests)
	if !r.PlayWithBrowser.IsZero() {
		mods = append(mods, Modifier{"playWithBrowser", r.PlayWithBrowser.Value()})
	}
	return mods
}

// BrowserScript is a Play-with-Browser action list: either a JSON array of
// action objects or a string the caller already encoded.
type BrowserScript struct {
	Raw     string
	Actions []map[string]any
}

// Value returns the script as it should be serialized: the action slice
// when present, otherwise the raw string.
func (b *BrowserScript) Value() any {
	if b.Actions != nil {
		return b.Actions
	}
	return b.Raw
}

// IsZero reports whether no script was supplied.
func (b *BrowserScript) IsZero() bool {
	return b == nil || (b.Raw == "" && len(b.Actions) == 0)
}

func (b *BrowserScript) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &b.Actions)
	}
	return json.Unmarshal(data, &b.Raw)
}

func (b BrowserScript) MarshalJSON() ([]byte, error) {
	if b.Actions != nil {
		return json.Marshal(b.Actions)
	}
	return json.Marshal(b.Raw)
}

// Bool returns a pointer to v, for building requests in code.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// IsSet reports whether an optional flag is present and true.
func IsSet(v *bool) bool { return v != nil && *v }
