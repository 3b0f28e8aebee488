package scrapedo

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/use-agent/scrapedo-mcp/models"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Normalize shapes a successful response into a ScrapeResult according to
// the output mode of req. Precedence: transparentResponse, returnJSON,
// markdown, then html with a tag-stripped text rendition.
func Normalize(raw *RawResponse, req *models.ScrapeRequest) *models.ScrapeResult {
	result := &models.ScrapeResult{
		Success:    true,
		StatusCode: raw.StatusCode,
		URL:        req.URL,
		Headers:    flattenHeaders(raw.Header),
	}

	body := string(raw.Body)
	switch {
	case models.IsSet(req.TransparentResponse):
		result.HTML = body
	case models.IsSet(req.ReturnJSON):
		applyNetworkData(result, raw.Body)
	case req.Output == "markdown":
		result.Markdown = body
	default:
		result.HTML = body
		result.Text = StripTags(body)
	}

	if models.IsSet(req.PureCookies) {
		if cookies := raw.Header.Values("Set-Cookie"); len(cookies) > 0 {
			result.Cookies = cookies
		}
	}
	return result
}

// StripTags removes every markup tag and trims surrounding whitespace.
func StripTags(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}

// applyNetworkData parses a returnJSON body. A body that is not JSON is
// kept as the raw string.
func applyNetworkData(result *models.ScrapeResult, body []byte) {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		result.NetworkData = string(body)
		return
	}
	result.NetworkData = data

	obj, ok := data.(map[string]any)
	if !ok {
		return
	}
	if s, ok := obj["screenshot"].(string); ok && s != "" {
		result.Screenshot = s
	}
	// Present means present: an empty list is still surfaced.
	if frames, ok := obj["frames"]; ok && frames != nil {
		result.Frames = frames
	}
	if ws, ok := obj["websockets"]; ok && ws != nil {
		result.Websockets = ws
	}
}

func flattenHeaders(h map[string][]string) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, vs := range h {
		out[strings.ToLower(k)] = strings.Join(vs, ", ")
	}
	return out
}
