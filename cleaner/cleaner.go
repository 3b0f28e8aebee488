package cleaner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/use-agent/scrapedo-mcp/models"
)

// Defaults for agent-sized output.
const (
	DefaultMaxContentLength = 10000
	DefaultMaxLength        = 50000
	DefaultChunkSize        = 30000
	DefaultChunkOverlap     = 500
)

// Output formats accepted by Optimize.
const (
	FormatHTML       = "html"
	FormatText       = "text"
	FormatMarkdown   = "markdown"
	FormatStructured = "structured"
)

// noiseSelectors never carry page content an agent needs.
var noiseSelectors = []string{"script", "style", "noscript", "iframe", "svg", "nav", "footer"}

// Cleaner turns scraped HTML into compact, agent-friendly shapes. It never
// fetches anything itself. The markdown converter is built once and shared
// across goroutines.
type Cleaner struct {
	mdConverter *converter.Converter
	log         *zap.Logger
}

// NewCleaner creates a Cleaner. A nil logger is replaced with a no-op.
func NewCleaner(log *zap.Logger) *Cleaner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cleaner{
		mdConverter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal)),
			),
		),
		log: log,
	}
}

// OptimizeOptions controls Optimize. Zero values select the defaults.
type OptimizeOptions struct {
	Format    string
	MaxLength int

	Chunking     bool
	ChunkSize    int
	ChunkOverlap int
}

func (o OptimizeOptions) withDefaults() OptimizeOptions {
	if o.Format == "" {
		o.Format = FormatStructured
	}
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.ChunkOverlap <= 0 || o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = DefaultChunkOverlap
		if o.ChunkOverlap >= o.ChunkSize {
			o.ChunkOverlap = 0
		}
	}
	return o
}

// Optimize reduces rawHTML to the requested format within a length budget.
//
// With chunking enabled, textual content longer than one chunk is split
// into overlapping chunks instead of being truncated.
func (c *Cleaner) Optimize(rawHTML, sourceURL string, opts OptimizeOptions) (*models.OptimizedContent, error) {
	opts = opts.withDefaults()
	originalLength := utf8.RuneCountInString(rawHTML)

	out := &models.OptimizedContent{
		Type: "full",
		Metadata: models.OptimizeMetadata{
			Format:         opts.Format,
			OriginalLength: originalLength,
		},
	}

	if opts.Format == FormatStructured {
		page := c.Structure(rawHTML, sourceURL, opts.MaxLength)
		out.Data = page
		out.Metadata.ReturnedLength = utf8.RuneCountInString(page.MainContent)
		out.Metadata.Truncated = page.Truncated
		out.Metadata.TokenEstimate = EstimateTokens(page.MainContent)
		return out, nil
	}

	content, err := c.render(rawHTML, sourceURL, opts.Format)
	if err != nil {
		return nil, err
	}

	if opts.Chunking && utf8.RuneCountInString(content) > opts.ChunkSize {
		chunks := Chunk(content, opts.ChunkSize, opts.ChunkOverlap)
		out.Type = "chunked"
		out.Chunks = chunks
		out.Metadata.TotalChunks = len(chunks)
		out.Metadata.ReturnedLength = utf8.RuneCountInString(content)
		out.Metadata.TokenEstimate = EstimateTokens(content)
		c.log.Debug("content chunked",
			zap.String("url", sourceURL),
			zap.Int("chunks", len(chunks)),
		)
		return out, nil
	}

	content, truncated := truncateRunes(content, opts.MaxLength)
	out.Data = content
	out.Metadata.ReturnedLength = utf8.RuneCountInString(content)
	out.Metadata.Truncated = truncated
	out.Metadata.TokenEstimate = EstimateTokens(content)
	return out, nil
}

// render produces the textual form of rawHTML for one format.
func (c *Cleaner) render(rawHTML, sourceURL, format string) (string, error) {
	switch format {
	case FormatHTML:
		return removeNoise(rawHTML), nil
	case FormatText:
		article, ok := c.extractContent(rawHTML, sourceURL)
		if ok {
			return collapseSpace(article.TextContent), nil
		}
		return visibleText(rawHTML), nil
	case FormatMarkdown:
		article, ok := c.extractContent(rawHTML, sourceURL)
		source := article.Content
		if !ok {
			source = removeNoise(rawHTML)
		}
		md, err := c.mdConverter.ConvertString(source, converter.WithDomain(sourceURL))
		if err != nil {
			return "", fmt.Errorf("cleaner: markdown conversion: %w", err)
		}
		return md, nil
	default:
		return "", fmt.Errorf("cleaner: unsupported format %q", format)
	}
}

// Chunk splits s into pieces of at most size runes, each starting overlap
// runes before the end of the previous one.
func Chunk(s string, size, overlap int) []string {
	runes := []rune(s)
	if size <= 0 || len(runes) <= size {
		return []string{s}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// truncateRunes cuts s to max runes.
func truncateRunes(s string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	return string([]rune(s)[:max]), true
}

// visibleText returns the whitespace-collapsed text of the page body with
// noise elements removed.
func visibleText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return collapseSpace(rawHTML)
	}
	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	body := doc.Find("body")
	if body.Length() == 0 {
		return collapseSpace(doc.Text())
	}
	return collapseSpace(body.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
