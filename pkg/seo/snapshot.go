package seo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ErrEmptyDocument is returned when there is no HTML to snapshot.
var ErrEmptyDocument = errors.New("empty document")

// Snapshot is a read-only view of the parts of a rendered page the audit
// looks at. It is plain data, so audits are deterministic for a given value.
type Snapshot struct {
	URL      *url.URL
	Title    string
	Meta     []MetaTag
	LinkTags []LinkTag
	Images   []Image
	Headings []Heading
	Anchors  []Anchor
	// StructuredData holds the raw bodies of application/ld+json scripts.
	StructuredData  []string
	Stylesheets     int
	ExternalScripts int
	// TapTargets is only filled when the page was measured in a browser.
	TapTargets []TapTarget
	Text       string
	Breadcrumb bool
}

type MetaTag struct {
	Name     string
	Property string
	Content  string
}

type LinkTag struct {
	Rel  string
	Href string
}

type Image struct {
	Src     string
	Alt     string
	HasAlt  bool
	Width   string
	Height  string
	Loading string
	// Natural size in pixels; zero when not measured.
	NaturalWidth  int
	NaturalHeight int
}

type Heading struct {
	Level int
	Text  string
}

type Anchor struct {
	Href   string
	Text   string
	Target string
	Rel    string
	// Contextual is set for links nested in a paragraph, list item or table cell.
	Contextual bool
}

type TapTarget struct {
	Tag    string
	Width  float64
	Height float64
}

// MetaContent returns the content of the first meta tag whose name or
// property equals key (case-insensitive).
func (s *Snapshot) MetaContent(key string) (string, bool) {
	for _, m := range s.Meta {
		if strings.EqualFold(m.Name, key) || strings.EqualFold(m.Property, key) {
			return m.Content, true
		}
	}
	return "", false
}

// HasLinkRel reports whether a <link> with one of rels is present.
func (s *Snapshot) HasLinkRel(rels ...string) bool {
	for _, l := range s.LinkTags {
		for _, token := range strings.Fields(strings.ToLower(l.Rel)) {
			for _, rel := range rels {
				if token == rel {
					return true
				}
			}
		}
	}
	return false
}

// Path returns the page path, "/" when unknown.
func (s *Snapshot) Path() string {
	if s.URL == nil || s.URL.Path == "" {
		return "/"
	}
	return s.URL.Path
}

// ParseHTML builds a snapshot from an HTML document served at pageURL.
// An empty pageURL is treated as https://localhost/.
func ParseHTML(pageURL string, r io.Reader) (*Snapshot, error) {
	if strings.TrimSpace(pageURL) == "" {
		pageURL = "https://localhost/"
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("page url %q: %w", pageURL, err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	snap := &Snapshot{
		URL:   u,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		property, _ := s.Attr("property")
		content, _ := s.Attr("content")
		if name == "" && property == "" {
			return
		}
		snap.Meta = append(snap.Meta, MetaTag{Name: name, Property: property, Content: content})
	})

	doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		href, _ := s.Attr("href")
		snap.LinkTags = append(snap.LinkTags, LinkTag{Rel: rel, Href: href})
		for _, token := range strings.Fields(strings.ToLower(rel)) {
			if token == "stylesheet" {
				snap.Stylesheets++
				break
			}
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		alt, hasAlt := s.Attr("alt")
		width, _ := s.Attr("width")
		height, _ := s.Attr("height")
		loading, _ := s.Attr("loading")
		snap.Images = append(snap.Images, Image{
			Src:     src,
			Alt:     alt,
			HasAlt:  hasAlt,
			Width:   width,
			Height:  height,
			Loading: loading,
		})
	})

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level, _ := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		snap.Headings = append(snap.Headings, Heading{Level: level, Text: collapseSpace(s.Text())})
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target, _ := s.Attr("target")
		rel, _ := s.Attr("rel")
		snap.Anchors = append(snap.Anchors, Anchor{
			Href:       strings.TrimSpace(href),
			Text:       collapseSpace(s.Text()),
			Target:     target,
			Rel:        rel,
			Contextual: s.ParentsFiltered("p, li, td").Length() > 0,
		})
	})

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			snap.StructuredData = append(snap.StructuredData, s.Text())
			return
		}
		if src, ok := s.Attr("src"); ok && strings.TrimSpace(src) != "" {
			snap.ExternalScripts++
		}
	})

	snap.Breadcrumb = doc.Find(`nav[aria-label*="readcrumb"], [class*="breadcrumb"], [itemtype*="BreadcrumbList"]`).Length() > 0
	if !snap.Breadcrumb {
		for _, raw := range snap.StructuredData {
			if strings.Contains(raw, "BreadcrumbList") {
				snap.Breadcrumb = true
				break
			}
		}
	}

	snap.Text = visibleText(doc.Find("body").Nodes)

	return snap, nil
}

// visibleText joins the text nodes under nodes, skipping non-rendered elements.
func visibleText(nodes []*html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return collapseSpace(b.String())
}

func sameHost(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a != "" && a == b
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
