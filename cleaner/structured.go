package cleaner

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/use-agent/scrapedo-mcp/models"
)

// Structure extracts the structured view of a page: title, description,
// headings, links, images, Open Graph tags, JSON-LD blocks and the main
// content text cut to maxContentLength runes.
func (c *Cleaner) Structure(rawHTML, sourceURL string, maxContentLength int) *models.StructuredPage {
	if maxContentLength <= 0 {
		maxContentLength = DefaultMaxContentLength
	}

	page := &models.StructuredPage{
		Headings: []models.Heading{},
		Links:    models.LinksResult{Internal: []models.Link{}, External: []models.Link{}},
		Images:   []models.Image{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		c.log.Debug("structure: parse failed", zap.String("url", sourceURL), zap.Error(err))
		page.MainContent, page.Truncated = truncateRunes(collapseSpace(rawHTML), maxContentLength)
		return page
	}

	base, err := url.Parse(sourceURL)
	if err != nil {
		base = nil
	}

	page.Title = PageTitle(rawHTML)
	page.Language = strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	page.Headings = extractHeadings(doc)
	page.Links = extractLinks(doc, base)
	page.Images = extractImages(doc, base)
	page.OGMetadata = extractOGMetadata(doc)
	page.JSONLD = extractJSONLD(doc)

	page.Description = metaContent(doc, "description")
	if page.Description == "" {
		page.Description = page.OGMetadata.Description
	}
	if page.Title == "" {
		page.Title = page.OGMetadata.Title
	}

	var main string
	if article, ok := c.extractContent(rawHTML, sourceURL); ok {
		main = collapseSpace(article.TextContent)
	} else {
		main = visibleText(rawHTML)
	}
	page.MainContent, page.Truncated = truncateRunes(main, maxContentLength)
	return page
}

// PageTitle returns the text of the first <title> element, or "".
func PageTitle(rawHTML string) string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) != "title" {
				continue
			}
			if z.Next() == html.TextToken {
				return collapseSpace(string(z.Text()))
			}
			return ""
		}
	}
}

func extractHeadings(doc *goquery.Document) []models.Heading {
	headings := []models.Heading{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		if text == "" {
			return
		}
		name := goquery.NodeName(s)
		headings = append(headings, models.Heading{
			Level: int(name[1] - '0'),
			Text:  text,
		})
	})
	return headings
}

// extractJSONLD decodes every application/ld+json block. Blocks that are
// not valid JSON are skipped.
func extractJSONLD(doc *goquery.Document) []any {
	var blocks []any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var v any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &v); err != nil {
			return
		}
		blocks = append(blocks, v)
	})
	return blocks
}
