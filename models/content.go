package models

// StructuredPage is the structured view of a scraped HTML page.
type StructuredPage struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Language    string      `json:"language,omitempty"`
	Headings    []Heading   `json:"headings"`
	Links       LinksResult `json:"links"`
	Images      []Image     `json:"images"`
	OGMetadata  OGMetadata  `json:"og_metadata"`
	JSONLD      []any       `json:"json_ld,omitempty"`
	MainContent string      `json:"main_content"`
	Truncated   bool        `json:"truncated,omitempty"`
}

// Heading is one h1-h6 element.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// LinksResult separates extracted links into internal and external groups.
type LinksResult struct {
	Internal []Link `json:"internal"`
	External []Link `json:"external"`
}

// Link represents a hyperlink extracted from the page.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text,omitempty"`
}

// Image represents an image element extracted from the page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// OGMetadata contains Open Graph protocol meta tags.
type OGMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Type        string `json:"type,omitempty"`
}

// OptimizedContent is agent-sized output of a scrape.
type OptimizedContent struct {
	// Type is "full" or "chunked".
	Type     string           `json:"type"`
	Data     any              `json:"data,omitempty"`
	Chunks   []string         `json:"chunks,omitempty"`
	Metadata OptimizeMetadata `json:"metadata"`
}

// OptimizeMetadata reports how the content was reduced.
type OptimizeMetadata struct {
	Format         string `json:"format"`
	OriginalLength int    `json:"originalLength"`
	ReturnedLength int    `json:"returnedLength"`
	Truncated      bool   `json:"truncated"`
	TokenEstimate  int    `json:"tokenEstimate"`
	TotalChunks    int    `json:"totalChunks,omitempty"`
}

// IntentData is the result of intent-driven extraction.
type IntentData struct {
	Intent string         `json:"intent"`
	URL    string         `json:"url"`
	Fields map[string]any `json:"fields"`
}
