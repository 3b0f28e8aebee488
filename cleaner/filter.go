package cleaner

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// removeNoise drops script, style and layout chrome from html.
func removeNoise(html string) string {
	return FilterContent(html, nil, noiseSelectors)
}

// FilterContent removes elements matching exclude, then keeps only the
// elements matching include. When include matches nothing the
// exclude-filtered document is returned. Unparseable input comes back
// unchanged.
func FilterContent(html string, include, exclude []string) string {
	if len(include) == 0 && len(exclude) == 0 {
		return html
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}

	if len(exclude) > 0 {
		doc.Find(strings.Join(exclude, ", ")).Remove()
	}

	if len(include) > 0 {
		if kept := outerHTML(doc.Find(strings.Join(include, ", "))); kept != "" {
			return kept
		}
	}

	out, err := doc.Html()
	if err != nil {
		return html
	}
	return out
}

// outerHTML concatenates the outer HTML of every node in sel.
func outerHTML(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Each(func(_ int, s *goquery.Selection) {
		if h, err := goquery.OuterHtml(s); err == nil {
			b.WriteString(h)
		}
	})
	return b.String()
}
