package cleaner

import (
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// minContentLength is the shortest TextContent accepted from readability.
// Anything shorter means the main content was not found.
const minContentLength = 50

// extractContent runs Mozilla Readability on rawHTML. The bool is false
// when extraction failed or found too little text, in which case the
// returned Article only wraps the raw HTML.
func (c *Cleaner) extractContent(rawHTML, sourceURL string) (readability.Article, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		c.log.Debug("readability: invalid source url", zap.String("url", sourceURL), zap.Error(err))
		return fallbackArticle(rawHTML), false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		c.log.Debug("readability: extraction failed", zap.String("url", sourceURL), zap.Error(err))
		return fallbackArticle(rawHTML), false
	}

	if len(strings.TrimSpace(article.TextContent)) < minContentLength {
		c.log.Debug("readability: content too short",
			zap.String("url", sourceURL),
			zap.Int("length", len(article.TextContent)),
		)
		return fallbackArticle(rawHTML), false
	}
	return article, true
}

func fallbackArticle(rawHTML string) readability.Article {
	return readability.Article{Content: rawHTML}
}
