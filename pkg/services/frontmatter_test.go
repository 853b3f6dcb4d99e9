package services

import (
	"reflect"
	"testing"
)

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	fm, content := ParseFrontMatter("\n# Hello\n\nJust markdown.\n")
	if len(fm) != 0 {
		t.Fatalf("expected empty frontmatter, got %v", fm)
	}
	if content != "# Hello\n\nJust markdown." {
		t.Fatalf("unexpected content %q", content)
	}
}

func TestParseFrontMatterValues(t *testing.T) {
	raw := "---\n" +
		"title: \"Hello: World\"\n" +
		"author: 'Alex'\n" +
		"tags: [React, \"Type Script\", 'Go']\n" +
		"featured: true\n" +
		"draft: false\n" +
		"quoted: \"true\"\n" +
		"empty: []\n" +
		"not a pair\n" +
		"---\n" +
		"\n# Body\n"

	fm, content := ParseFrontMatter(raw)

	if content != "# Body" {
		t.Fatalf("unexpected content %q", content)
	}
	tests := []struct {
		key  string
		want any
	}{
		{"title", "Hello: World"},
		{"author", "Alex"},
		{"tags", []string{"React", "Type Script", "Go"}},
		{"featured", true},
		{"draft", false},
		{"quoted", "true"},
		{"empty", []string{}},
	}
	for _, tt := range tests {
		if got := fm[tt.key]; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: got %#v, want %#v", tt.key, got, tt.want)
		}
	}
	if _, ok := fm["not a pair"]; ok {
		t.Errorf("line without a colon should be ignored")
	}
}

func TestParseFrontMatterSplitsQuotedCommas(t *testing.T) {
	fm, _ := ParseFrontMatter("---\ntags: [\"a, b\", c]\n---\nbody")
	want := []string{"a", "b", "c"}
	if got := fm["tags"]; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestParseFrontMatterCRLF(t *testing.T) {
	fm, content := ParseFrontMatter("---\r\ntitle: Windows\r\n---\r\nbody text\r\n")
	if fm.String("title") != "Windows" {
		t.Fatalf("title = %q", fm.String("title"))
	}
	if content != "body text" {
		t.Fatalf("content = %q", content)
	}
}

func TestParseFrontMatterUnterminatedBlock(t *testing.T) {
	raw := "---\ntitle: Missing end\n\nbody"
	fm, content := ParseFrontMatter(raw)
	if len(fm) != 0 {
		t.Fatalf("expected empty frontmatter, got %v", fm)
	}
	if content != raw {
		t.Fatalf("content = %q", content)
	}
}

func TestBuildArticle(t *testing.T) {
	raw := "---\n" +
		"title: First Post\n" +
		"date: 2024-01-02\n" +
		"tags: Go\n" +
		"featured: \"true\"\n" +
		"series: intro\n" +
		"---\n" +
		"Hello"

	a := BuildArticle("first-post", raw)

	if a.Slug != "first-post" {
		t.Errorf("slug = %q", a.Slug)
	}
	if a.Metadata.Title != "First Post" || a.Metadata.Date != "2024-01-02" {
		t.Errorf("unexpected metadata %+v", a.Metadata)
	}
	if !reflect.DeepEqual(a.Metadata.Tags, []string{"Go"}) {
		t.Errorf("tags = %#v", a.Metadata.Tags)
	}
	if !a.Metadata.Featured {
		t.Errorf("quoted true should count as featured")
	}
	if a.Metadata.Description != "" || a.Metadata.Category != "" {
		t.Errorf("missing keys should be empty: %+v", a.Metadata)
	}
	if a.Extra["series"] != "intro" {
		t.Errorf("unknown keys should be kept in Extra, got %v", a.Extra)
	}
	if a.Content != "Hello" {
		t.Errorf("content = %q", a.Content)
	}
}
