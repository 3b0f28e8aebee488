package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     ScrapeRequest
		wantErr string
	}{
		{"minimal", ScrapeRequest{URL: "https://example.com"}, ""},
		{"missing url", ScrapeRequest{}, "url: is required"},
		{"relative url", ScrapeRequest{URL: "/path"}, "url: must be an absolute URL"},
		{"bad method", ScrapeRequest{URL: "https://example.com", Method: "PATCH"}, "method: must be one of"},
		{"session too big", ScrapeRequest{URL: "https://example.com", SessionID: Int(1000001)}, "sessionId: must be <= 1000000"},
		{"session zero", ScrapeRequest{URL: "https://example.com", SessionID: Int(0)}, ""},
		{"timeout too small", ScrapeRequest{URL: "https://example.com", Timeout: Int(4999)}, "timeout: must be >= 5000"},
		{"timeout max", ScrapeRequest{URL: "https://example.com", Timeout: Int(120000)}, ""},
		{"retry timeout too big", ScrapeRequest{URL: "https://example.com", RetryTimeout: Int(55001)}, "retryTimeout: must be <= 55000"},
		{"bad output", ScrapeRequest{URL: "https://example.com", Output: "pdf"}, "output: must be one of [raw markdown]"},
		{"bad device", ScrapeRequest{URL: "https://example.com", Device: "watch"}, "device"},
		{"bad region", ScrapeRequest{URL: "https://example.com", RegionalGeoCode: "mars"}, "regionalGeoCode"},
		{"bad waitUntil", ScrapeRequest{URL: "https://example.com", WaitUntil: "idle"}, "waitUntil"},
		{"bad callback", ScrapeRequest{URL: "https://example.com", Callback: "nope"}, "callback"},
		{
			"two screenshots",
			ScrapeRequest{URL: "https://example.com", ScreenShot: Bool(true), FullScreenShot: Bool(true)},
			"only one of screenShot, fullScreenShot, or particularScreenShot",
		},
		{
			"disabled screenshot does not count",
			ScrapeRequest{URL: "https://example.com", ScreenShot: Bool(false), FullScreenShot: Bool(true)},
			"",
		},
		{
			"browser script with screenshot",
			ScrapeRequest{URL: "https://example.com", ParticularScreenShot: "#main", PlayWithBrowser: &BrowserScript{Raw: "[]"}},
			"playWithBrowser actions cannot be combined",
		},
		{
			"browser script alone",
			ScrapeRequest{URL: "https://example.com", PlayWithBrowser: &BrowserScript{Actions: []map[string]any{{"Action": "Click"}}}},
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Error(), tt.wantErr)
			assert.True(t, strings.HasPrefix(ve.Error(), "invalid parameters: "))
		})
	}
}

func TestValidateModifiersSkipsURL(t *testing.T) {
	assert.NoError(t, (&ScrapeRequest{Render: Bool(true)}).ValidateModifiers())
	assert.Error(t, (&ScrapeRequest{Timeout: Int(1)}).ValidateModifiers())
}

func TestHTTPMethodAndBody(t *testing.T) {
	r := &ScrapeRequest{}
	assert.Equal(t, "GET", r.HTTPMethod())
	assert.False(t, r.HasBody())

	r.Body = "x"
	assert.False(t, r.HasBody())
	for _, m := range []string{"POST", "PUT", "DELETE"} {
		r.Method = m
		assert.True(t, r.HasBody(), m)
	}
	r.Method = "HEAD"
	assert.False(t, r.HasBody())
}

func TestModifiersExcludeExchangeFields(t *testing.T) {
	r := &ScrapeRequest{URL: "https://example.com", Method: "POST", Body: "b", Render: Bool(false), GeoCode: "us"}
	assert.Equal(t, []Modifier{{"render", false}, {"geoCode", "us"}}, r.Modifiers())
}

func TestActiveScreenshots(t *testing.T) {
	r := &ScrapeRequest{FullScreenShot: Bool(true), ParticularScreenShot: "#x"}
	assert.Equal(t, []string{"fullScreenShot", "particularScreenShot"}, r.ActiveScreenshots())
	assert.Empty(t, (&ScrapeRequest{ScreenShot: Bool(false)}).ActiveScreenshots())
}

func TestBrowserScriptJSON(t *testing.T) {
	var r ScrapeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"url":"https://x.io","playWithBrowser":[{"Action":"Wait","Timeout":500}]}`), &r))
	require.NotNil(t, r.PlayWithBrowser)
	assert.Equal(t, []map[string]any{{"Action": "Wait", "Timeout": float64(500)}}, r.PlayWithBrowser.Actions)

	var raw ScrapeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"url":"https://x.io","playWithBrowser":"[{\"Action\":\"Click\"}]"}`), &raw))
	assert.Equal(t, `[{"Action":"Click"}]`, raw.PlayWithBrowser.Raw)
	assert.Nil(t, raw.PlayWithBrowser.Actions)

	out, err := json.Marshal(BrowserScript{Actions: []map[string]any{{"Action": "Click"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Action":"Click"}]`, string(out))

	var nilScript *BrowserScript
	assert.True(t, nilScript.IsZero())
	assert.True(t, (&BrowserScript{}).IsZero())
}

func TestUnknownKeysIgnoredOnDecode(t *testing.T) {
	var r ScrapeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"url":"https://x.io","bogus":true}`), &r))
	assert.Equal(t, "https://x.io", r.URL)
	assert.Empty(t, r.Modifiers())
}
