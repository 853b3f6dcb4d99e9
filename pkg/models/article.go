package models

// ArticleMetadata is the typed view of an article's frontmatter block.
// Missing keys stay at their zero value.
type ArticleMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	Category    string   `json:"category"`
	Featured    bool     `json:"featured"`
	Excerpt     string   `json:"excerpt"`
	Gradient    string   `json:"gradient"`
}

// Article represents a markdown content file listed in the manifest.
type Article struct {
	Slug     string          `json:"slug"`
	Metadata ArticleMetadata `json:"metadata"`
	Content  string          `json:"content"`
	// Extra carries frontmatter keys that have no ArticleMetadata field.
	Extra map[string]any `json:"extra,omitempty"`
}

// HasTag reports whether the article carries tag (exact match).
func (a Article) HasTag(tag string) bool {
	for _, t := range a.Metadata.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
