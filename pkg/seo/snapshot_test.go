package seo

import (
	"errors"
	"strings"
	"testing"
)

const snapshotPage = `<!DOCTYPE html>
<html>
<head>
  <title>  Snapshot Page  </title>
  <meta name="description" content="Describes the page">
  <meta property="og:title" content="OG title">
  <meta charset="utf-8">
  <link rel="canonical" href="https://example.com/blog/post">
  <link rel="stylesheet" href="/a.css">
  <link rel="Stylesheet preload" href="/b.css">
  <script type="application/ld+json">{"@context":"https://schema.org","@type":"Person","name":"Alex"}</script>
  <script src="https://cdn.example.net/lib.js"></script>
  <script src="/local.js"></script>
  <script>var inline = "not visible";</script>
</head>
<body>
  <nav class="site-breadcrumb"><a href="/">Home</a></nav>
  <h1>Main <em>title</em></h1>
  <p>Intro with <a href="/about">an about link</a>.</p>
  <h3>Skipped</h3>
  <div><a href="https://other.org/" target="_blank" rel="noopener">Other</a></div>
  <img src="/a.png" alt="First image" width="10" height="10">
  <img src="/b.png" loading="lazy">
  <style>.hidden { display: none }</style>
  <noscript>Enable JavaScript</noscript>
</body>
</html>`

func TestParseHTML(t *testing.T) {
	snap, err := ParseHTML("https://example.com/blog/post", strings.NewReader(snapshotPage))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}

	if snap.Title != "Snapshot Page" {
		t.Errorf("title = %q", snap.Title)
	}
	if len(snap.Meta) != 2 {
		t.Errorf("meta tags without name or property should be dropped, got %+v", snap.Meta)
	}
	if v, ok := snap.MetaContent("OG:TITLE"); !ok || v != "OG title" {
		t.Errorf("meta lookup should match property case-insensitively, got %q %v", v, ok)
	}
	if !snap.HasLinkRel("canonical") || !snap.HasLinkRel("preload") {
		t.Errorf("link rels not recorded: %+v", snap.LinkTags)
	}
	if snap.Stylesheets != 2 {
		t.Errorf("stylesheets = %d", snap.Stylesheets)
	}
	if snap.ExternalScripts != 2 {
		t.Errorf("external scripts = %d", snap.ExternalScripts)
	}
	if len(snap.StructuredData) != 1 || !strings.Contains(snap.StructuredData[0], `"Person"`) {
		t.Errorf("structured data = %v", snap.StructuredData)
	}
	if !snap.Breadcrumb {
		t.Errorf("breadcrumb class not detected")
	}

	if len(snap.Headings) != 2 || snap.Headings[0].Level != 1 || snap.Headings[0].Text != "Main title" || snap.Headings[1].Level != 3 {
		t.Errorf("headings = %+v", snap.Headings)
	}

	if len(snap.Anchors) != 3 {
		t.Fatalf("anchors = %+v", snap.Anchors)
	}
	about := snap.Anchors[1]
	if about.Href != "/about" || !about.Contextual || about.Text != "an about link" {
		t.Errorf("about anchor = %+v", about)
	}
	if other := snap.Anchors[2]; other.Contextual || other.Target != "_blank" || other.Rel != "noopener" {
		t.Errorf("external anchor = %+v", other)
	}

	if len(snap.Images) != 2 {
		t.Fatalf("images = %+v", snap.Images)
	}
	if img := snap.Images[0]; !img.HasAlt || img.Alt != "First image" || img.Width != "10" {
		t.Errorf("first image = %+v", img)
	}
	if img := snap.Images[1]; img.HasAlt || img.Loading != "lazy" {
		t.Errorf("second image = %+v", img)
	}

	for _, hidden := range []string{"not visible", "display: none", "Enable JavaScript"} {
		if strings.Contains(snap.Text, hidden) {
			t.Errorf("visible text should not contain %q: %q", hidden, snap.Text)
		}
	}
	if !strings.Contains(snap.Text, "Intro with an about link .") {
		t.Errorf("text = %q", snap.Text)
	}
	if snap.Path() != "/blog/post" {
		t.Errorf("path = %q", snap.Path())
	}
}

func TestParseHTMLBreadcrumbFromStructuredData(t *testing.T) {
	page := `<html><head><script type="application/ld+json">{"@context":"https://schema.org","@type":"BreadcrumbList"}</script></head><body></body></html>`
	snap, err := ParseHTML("", strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	if !snap.Breadcrumb {
		t.Fatalf("BreadcrumbList JSON-LD should count as breadcrumb markup")
	}
	if snap.URL.String() != "https://localhost/" {
		t.Fatalf("default url = %s", snap.URL)
	}
}

func TestParseHTMLEmpty(t *testing.T) {
	if _, err := ParseHTML("https://example.com/", strings.NewReader(" \n\t")); !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestMergeProbe(t *testing.T) {
	snap := &Snapshot{Images: []Image{{Src: "/a.png"}, {Src: "/b.png"}}}
	probe := liveProbe{
		Images:  []probeImage{{Src: "/b.png", NaturalWidth: 4000, NaturalHeight: 3000}},
		Targets: []TapTarget{{Tag: "a", Width: 30, Height: 20}},
	}

	mergeProbe(snap, probe)

	if snap.Images[0].NaturalWidth != 0 || snap.Images[1].NaturalWidth != 4000 || snap.Images[1].NaturalHeight != 3000 {
		t.Fatalf("images = %+v", snap.Images)
	}
	if len(snap.TapTargets) != 1 || snap.TapTargets[0].Width != 30 {
		t.Fatalf("tap targets = %+v", snap.TapTargets)
	}
}
