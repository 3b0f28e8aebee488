package cleaner

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/use-agent/scrapedo-mcp/models"
)

// Intents accepted by ByIntent.
const (
	IntentArticle    = "article"
	IntentProduct    = "product"
	IntentNavigation = "navigation"
	IntentData       = "data"
	IntentContact    = "contact"
)

// Intents lists every supported intent in display order.
var Intents = []string{IntentArticle, IntentProduct, IntentNavigation, IntentData, IntentContact}

const (
	maxIntentItems   = 50
	maxIntentContent = 10000
)

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	pricePattern = regexp.MustCompile(`[\d][\d.,]*`)
)

var socialHosts = []string{
	"twitter.com", "x.com", "facebook.com", "linkedin.com", "instagram.com",
	"github.com", "youtube.com", "tiktok.com",
}

// ByIntent extracts only the fields relevant to intent from rawHTML.
func (c *Cleaner) ByIntent(rawHTML, sourceURL, intent string) (*models.IntentData, error) {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("cleaner: parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)
	base, _ := url.Parse(sourceURL)

	var fields map[string]any
	switch intent {
	case IntentArticle:
		fields = c.articleFields(rawHTML, sourceURL, doc)
	case IntentProduct:
		fields = productFields(root, doc, base)
	case IntentNavigation:
		fields = navigationFields(root, doc, base)
	case IntentData:
		fields = dataFields(root)
	case IntentContact:
		fields = contactFields(root, doc)
	default:
		return nil, fmt.Errorf("cleaner: unknown intent %q (want one of %s)", intent, strings.Join(Intents, ", "))
	}

	return &models.IntentData{Intent: intent, URL: sourceURL, Fields: fields}, nil
}

func (c *Cleaner) articleFields(rawHTML, sourceURL string, doc *goquery.Document) map[string]any {
	fields := map[string]any{
		"title":         PageTitle(rawHTML),
		"publishedTime": metaContent(doc, "article:published_time"),
	}

	var text string
	if article, ok := c.extractContent(rawHTML, sourceURL); !ok {
		text = visibleText(rawHTML)
	} else {
		text = collapseSpace(article.TextContent)
		if article.Title != "" {
			fields["title"] = article.Title
		}
		fields["byline"] = article.Byline
		fields["siteName"] = article.SiteName
		fields["excerpt"] = article.Excerpt
	}
	fields["wordCount"] = len(strings.Fields(text))
	content, truncated := truncateRunes(text, maxIntentContent)
	fields["content"] = content
	fields["truncated"] = truncated
	return fields
}

func productFields(root *html.Node, doc *goquery.Document, base *url.URL) map[string]any {
	fields := map[string]any{}

	// JSON-LD Product data is the most reliable source when present.
	for _, block := range extractJSONLD(doc) {
		if p := findTyped(block, "Product"); p != nil {
			fields["jsonLd"] = p
			if name, ok := p["name"].(string); ok {
				fields["name"] = name
			}
			break
		}
	}

	if _, ok := fields["name"]; !ok {
		name := metaContent(doc, "og:title")
		if name == "" {
			name = collapseSpace(doc.Find("[itemprop=name], h1").First().Text())
		}
		fields["name"] = name
	}

	if n := cascadia.Query(root, selPrice); n != nil {
		raw := attr(n, "content")
		if raw == "" {
			raw = attr(n, "data-price")
		}
		if raw == "" {
			raw = nodeText(n)
		}
		fields["priceText"] = raw
		fields["price"] = pricePattern.FindString(raw)
	}
	if cur := metaContent(doc, "priceCurrency"); cur != "" {
		fields["currency"] = cur
	}
	if avail := doc.Find("[itemprop=availability]").First(); avail.Length() > 0 {
		fields["availability"] = avail.AttrOr("href", avail.AttrOr("content", collapseSpace(avail.Text())))
	}

	desc := metaContent(doc, "description")
	if desc == "" {
		desc = collapseSpace(doc.Find("[itemprop=description]").First().Text())
	}
	fields["description"] = desc

	images := extractImages(doc, base)
	if len(images) > 10 {
		images = images[:10]
	}
	fields["images"] = images
	return fields
}

func navigationFields(root *html.Node, doc *goquery.Document, base *url.URL) map[string]any {
	menu := []models.Link{}
	seen := map[string]struct{}{}
	for _, n := range cascadia.QueryAll(root, selNavLinks) {
		href := resolveHref(base, attr(n, "href"))
		if href == "" {
			continue
		}
		if _, ok := seen[href]; ok {
			continue
		}
		seen[href] = struct{}{}
		menu = append(menu, models.Link{Href: href, Text: nodeText(n)})
		if len(menu) == maxIntentItems {
			break
		}
	}

	crumbs := []string{}
	for _, n := range cascadia.QueryAll(root, selBreadcrumbs) {
		if t := nodeText(n); t != "" {
			crumbs = append(crumbs, t)
		}
	}

	links := extractLinks(doc, base)
	return map[string]any{
		"menu":          menu,
		"breadcrumbs":   crumbs,
		"internalLinks": len(links.Internal),
		"externalLinks": len(links.External),
	}
}

// dataFields extracts tables and lists as plain rows of cell text.
func dataFields(root *html.Node) map[string]any {
	type table struct {
		Headers []string   `json:"headers"`
		Rows    [][]string `json:"rows"`
	}

	tables := []table{}
	for _, t := range cascadia.QueryAll(root, selTables) {
		var tb table
		for _, tr := range cascadia.QueryAll(t, selTableRows) {
			if tb.Headers == nil {
				if ths := cascadia.QueryAll(tr, selHeaderCells); len(ths) > 0 {
					tb.Headers = cellTexts(ths)
					continue
				}
			}
			if cells := cellTexts(cascadia.QueryAll(tr, selCells)); len(cells) > 0 {
				tb.Rows = append(tb.Rows, cells)
			}
		}
		if len(tb.Headers) > 0 || len(tb.Rows) > 0 {
			tables = append(tables, tb)
		}
		if len(tables) == maxIntentItems {
			break
		}
	}

	lists := [][]string{}
	for _, l := range cascadia.QueryAll(root, selLists) {
		var items []string
		for c := l.FirstChild; c != nil; c = c.NextSibling {
			if selListItems.Match(c) {
				if t := nodeText(c); t != "" {
					items = append(items, t)
				}
			}
		}
		if len(items) >= 2 {
			lists = append(lists, items)
		}
		if len(lists) == maxIntentItems {
			break
		}
	}

	return map[string]any{"tables": tables, "lists": lists}
}

func contactFields(root *html.Node, doc *goquery.Document) map[string]any {
	text := nodeText(root)

	emails := newOrderedSet()
	for _, n := range cascadia.QueryAll(root, selMailLinks) {
		addr, _, _ := strings.Cut(strings.TrimPrefix(attr(n, "href"), "mailto:"), "?")
		emails.add(addr)
	}
	for _, e := range emailPattern.FindAllString(text, maxIntentItems) {
		emails.add(e)
	}

	phones := newOrderedSet()
	for _, n := range cascadia.QueryAll(root, selTelLinks) {
		phones.add(strings.TrimPrefix(attr(n, "href"), "tel:"))
	}
	for _, p := range phonePattern.FindAllString(text, maxIntentItems) {
		phones.add(strings.TrimSpace(p))
	}

	addresses := newOrderedSet()
	for _, n := range cascadia.QueryAll(root, selAddress) {
		addresses.add(nodeText(n))
	}

	social := newOrderedSet()
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		u, err := url.Parse(s.AttrOr("href", ""))
		if err != nil {
			return
		}
		host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
		for _, h := range socialHosts {
			if host == h {
				social.add(u.String())
				return
			}
		}
	})

	return map[string]any{
		"emails":      emails.items,
		"phones":      phones.items,
		"addresses":   addresses.items,
		"socialLinks": social.items,
	}
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || base == nil {
		return href
	}
	u, err := base.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}

func cellTexts(nodes []*html.Node) []string {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = nodeText(n)
	}
	return out
}

// findTyped returns the first JSON-LD object whose @type is typ, searching
// arrays and @graph containers.
func findTyped(v any, typ string) map[string]any {
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if m := findTyped(item, typ); m != nil {
				return m
			}
		}
	case map[string]any:
		switch t := val["@type"].(type) {
		case string:
			if t == typ {
				return val
			}
		case []any:
			for _, x := range t {
				if x == typ {
					return val
				}
			}
		}
		if g, ok := val["@graph"]; ok {
			return findTyped(g, typ)
		}
	}
	return nil
}

type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: map[string]struct{}{}, items: []string{}}
}

func (s *orderedSet) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" || len(s.items) >= maxIntentItems {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
