package cleaner

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/scrapedo-mcp/models"
)

// extractLinks splits the page's http(s) links into internal and external
// by host, resolving relative hrefs against base and dropping duplicates.
func extractLinks(doc *goquery.Document, base *url.URL) models.LinksResult {
	result := models.LinksResult{
		Internal: []models.Link{},
		External: []models.Link{},
	}
	if base == nil {
		return result
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil || (resolved.Scheme != "http" && resolved.Scheme != "https") {
			return
		}
		resolved.Fragment = ""

		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}

		link := models.Link{Href: abs, Text: collapseSpace(s.Text())}
		if strings.EqualFold(resolved.Host, base.Host) {
			result.Internal = append(result.Internal, link)
		} else {
			result.External = append(result.External, link)
		}
	})
	return result
}

// extractImages returns every non-data image with an absolute src.
func extractImages(doc *goquery.Document, base *url.URL) []models.Image {
	images := []models.Image{}
	if base == nil {
		return images
	}

	seen := make(map[string]struct{})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}
		resolved, err := base.Parse(src)
		if err != nil || resolved.Scheme == "data" {
			return
		}

		abs := resolved.String()
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}

		images = append(images, models.Image{
			Src: abs,
			Alt: strings.TrimSpace(s.AttrOr("alt", "")),
		})
	})
	return images
}

// extractOGMetadata reads the Open Graph tags of the page.
func extractOGMetadata(doc *goquery.Document) models.OGMetadata {
	og := models.OGMetadata{}
	doc.Find("meta[property^='og:']").Each(func(_ int, s *goquery.Selection) {
		content := strings.TrimSpace(s.AttrOr("content", ""))
		if content == "" {
			return
		}
		switch s.AttrOr("property", "") {
		case "og:title":
			og.Title = content
		case "og:description":
			og.Description = content
		case "og:image":
			og.Image = content
		case "og:type":
			og.Type = content
		}
	})
	return og
}

// metaContent returns the content of the first <meta name=...> or
// <meta property=...> matching key.
func metaContent(doc *goquery.Document, key string) string {
	sel := doc.Find("meta[name='" + key + "'], meta[property='" + key + "'], meta[itemprop='" + key + "']").First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}
