package cleaner

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// compiled selectors used by intent extraction.
var (
	selNavLinks    = cascadia.MustCompile("nav a[href], header a[href], [role=navigation] a[href]")
	selBreadcrumbs = cascadia.MustCompile(`[aria-label*=readcrumb] a, .breadcrumb a, .breadcrumbs a, [itemtype*="BreadcrumbList"] [itemprop=name]`)
	selTables      = cascadia.MustCompile("table")
	selTableRows   = cascadia.MustCompile("tr")
	selHeaderCells = cascadia.MustCompile("th")
	selCells       = cascadia.MustCompile("th, td")
	selLists       = cascadia.MustCompile("ul, ol")
	selListItems   = cascadia.MustCompile("li")
	selPrice       = cascadia.MustCompile(`[itemprop=price], [class*=price], [id*=price], [data-price]`)
	selAddress     = cascadia.MustCompile(`address, [itemprop=address]`)
	selMailLinks   = cascadia.MustCompile(`a[href^="mailto:"]`)
	selTelLinks    = cascadia.MustCompile(`a[href^="tel:"]`)
)

// ApplyCSSSelector returns the concatenated outer HTML of every element of
// rawHTML matching selector. When nothing matches, rawHTML is returned
// unchanged so callers still have content.
func ApplyCSSSelector(rawHTML, selector string) (string, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return "", err
	}
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	matches := cascadia.QueryAll(doc, sel)
	if len(matches) == 0 {
		return rawHTML, nil
	}
	return renderNodes(matches)
}

func renderNodes(nodes []*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// nodeText returns the whitespace-collapsed text below n, skipping script
// and style contents.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(b.String())
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
