package scrapedo

import (
	"strings"

	"github.com/use-agent/scrapedo-mcp/models"
)

const (
	costBase        = 1
	costRender      = 5
	costSuper       = 10
	costSuperRender = 25
)

// domainFloors raise the estimate for targets known to be expensive.
var domainFloors = []struct {
	match string
	floor int
}{
	{"google.", 10},
	{"linkedin.com", 30},
}

// EstimateCredits returns the expected credit cost of req. It is a local
// heuristic; Scrape.do's own accounting is authoritative.
func EstimateCredits(req *models.ScrapeRequest) int {
	super, render := models.IsSet(req.Super), models.IsSet(req.Render)

	cost := costBase
	switch {
	case super && render:
		cost = costSuperRender
	case super:
		cost = costSuper
	case render:
		cost = costRender
	}

	target := strings.ToLower(req.URL)
	for _, d := range domainFloors {
		if strings.Contains(target, d.match) && cost < d.floor {
			cost = d.floor
		}
	}
	return cost
}
