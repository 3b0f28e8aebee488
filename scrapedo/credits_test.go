package scrapedo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/use-agent/scrapedo-mcp/models"
)

func TestEstimateCredits(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		super  bool
		render bool
		want   int
	}{
		{"plain", "https://example.com", false, false, 1},
		{"render", "https://example.com", false, true, 5},
		{"super", "https://example.com", true, false, 10},
		{"super and render", "https://example.com", true, true, 25},
		{"google floor", "https://www.google.com/search?q=go", false, false, 10},
		{"google floor below render", "https://google.de", false, true, 10},
		{"google keeps higher", "https://google.com", true, true, 25},
		{"linkedin floor", "https://www.linkedin.com/in/someone", true, true, 30},
		{"linkedin plain", "https://linkedin.com", false, false, 30},
		{"case insensitive", "https://WWW.LinkedIn.COM/jobs", false, false, 30},
		{"no false match", "https://googleapis.example", false, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &models.ScrapeRequest{URL: tt.url}
			if tt.super {
				req.Super = models.Bool(true)
			}
			if tt.render {
				req.Render = models.Bool(true)
			}
			assert.Equal(t, tt.want, EstimateCredits(req))
		})
	}
}

func TestEstimateCreditsExplicitFalse(t *testing.T) {
	req := &models.ScrapeRequest{URL: "https://example.com", Super: models.Bool(false), Render: models.Bool(false)}
	assert.Equal(t, 1, EstimateCredits(req))
}
