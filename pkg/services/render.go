package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/goliatone/go-slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"portfolio/assets"
	"portfolio/pkg/models"
)

// SiteInfo describes the site an article page is rendered for.
type SiteInfo struct {
	Name string
	// URL is the public URL of the page being rendered.
	URL   string
	Image string
}

// Renderer turns articles into complete HTML pages.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// NewRenderer parses the bundled page templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(assets.Templates(), "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, tmpl: tmpl}, nil
}

// RenderMarkdown converts an article body to HTML.
func (r *Renderer) RenderMarkdown(content string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return template.HTML(buf.String()), nil
}

type pageData struct {
	Title        string
	URL          string
	Image        string
	Article      models.Article
	Body         template.HTML
	JSONLD       []template.JS
	CategorySlug string
	ReadingTime  int
	Related      []models.Article
}

// RenderPage renders article as a full HTML document with head metadata,
// JSON-LD and links to related articles.
func (r *Renderer) RenderPage(article models.Article, related []models.Article, site SiteInfo) ([]byte, error) {
	body, err := r.RenderMarkdown(article.Content)
	if err != nil {
		return nil, err
	}
	ld, err := articleJSONLD(article, site)
	if err != nil {
		return nil, err
	}

	title := article.Metadata.Title
	if site.Name != "" {
		title = fmt.Sprintf("%s | %s", article.Metadata.Title, site.Name)
	}
	categorySlug, err := slug.Normalize(article.Metadata.Category)
	if err != nil {
		categorySlug = ""
	}

	data := pageData{
		Title:        title,
		URL:          site.URL,
		Image:        site.Image,
		Article:      article,
		Body:         body,
		JSONLD:       ld,
		CategorySlug: categorySlug,
		ReadingTime:  ReadingTime(article.Content),
		Related:      related,
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "article.html", data); err != nil {
		return nil, fmt.Errorf("render article %s: %w", article.Slug, err)
	}
	return buf.Bytes(), nil
}

func articleJSONLD(article models.Article, site SiteInfo) ([]template.JS, error) {
	docs := []map[string]any{
		{
			"@context":      "https://schema.org",
			"@type":         "BlogPosting",
			"headline":      article.Metadata.Title,
			"description":   article.Metadata.Description,
			"datePublished": article.Metadata.Date,
			"keywords":      article.Metadata.Tags,
			"url":           site.URL,
			"author": map[string]any{
				"@type": "Person",
				"name":  article.Metadata.Author,
			},
		},
		{
			"@context": "https://schema.org",
			"@type":    "BreadcrumbList",
			"itemListElement": []map[string]any{
				{"@type": "ListItem", "position": 1, "name": "Home", "item": "/"},
				{"@type": "ListItem", "position": 2, "name": "Blog", "item": "/blog"},
				{"@type": "ListItem", "position": 3, "name": article.Metadata.Title, "item": site.URL},
			},
		},
	}

	blocks := make([]template.JS, 0, len(docs))
	for _, doc := range docs {
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("encode json-ld: %w", err)
		}
		blocks = append(blocks, template.JS(out))
	}
	return blocks, nil
}
