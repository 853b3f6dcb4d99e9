package seo

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"portfolio/pkg/metrics"
	"portfolio/pkg/models"
)

func auditPage(t *testing.T, pageURL, page string) *models.SEOAuditResult {
	t.Helper()
	snap, err := ParseHTML(pageURL, strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	return RunSEOAudit(snap)
}

func issuesIn(result *models.SEOAuditResult, typ models.IssueType, category string) []models.SEOIssue {
	var out []models.SEOIssue
	for _, issue := range result.Issues {
		if issue.Type == typ && issue.Category == category {
			out = append(out, issue)
		}
	}
	return out
}

func hasRecommendation(result *models.SEOAuditResult, title string) bool {
	for _, rec := range result.Recommendations {
		if rec.Title == title {
			return true
		}
	}
	return false
}

// page wraps head and body markup in a document with a viewport.
func page(head, body string) string {
	return `<!DOCTYPE html><html><head><meta name="viewport" content="width=device-width">` +
		head + `</head><body>` + body + `</body></html>`
}

func TestAuditNoH1(t *testing.T) {
	result := auditPage(t, "https://example.com/", page("<title>A page without a main heading at all</title>", "<h2>Only a subheading</h2>"))

	if got := issuesIn(result, models.IssueCritical, "Heading Structure"); len(got) != 1 {
		t.Fatalf("expected exactly one critical heading issue, got %+v", got)
	}
}

func TestAuditMultipleH1AndSkippedLevels(t *testing.T) {
	result := auditPage(t, "https://example.com/", page("", "<h1>One</h1><h3>Jump</h3><h1>Two</h1><h2>Ok</h2><h4>Jump again</h4>"))

	if got := issuesIn(result, models.IssueWarning, "Heading Structure"); len(got) != 1 {
		t.Errorf("expected one multiple-h1 warning, got %+v", got)
	}
	if got := issuesIn(result, models.IssueInfo, "Heading Structure"); len(got) != 2 {
		t.Errorf("expected two hierarchy issues, got %+v", got)
	}
	if h := result.Metrics.HeadingStructure; h.H1 != 2 || h.H2 != 1 || h.H3 != 1 || h.H4 != 1 {
		t.Errorf("heading counts = %+v", h)
	}
}

func TestAuditShortMetaDescription(t *testing.T) {
	result := auditPage(t, "https://example.com/", page(`<meta name="description" content="fifteen chars!!">`, "<h1>x</h1>"))

	got := issuesIn(result, models.IssueWarning, "Meta Description")
	if len(got) != 1 || !strings.Contains(got[0].Description, "too short") {
		t.Fatalf("expected a too short warning, got %+v", got)
	}
	if result.Metrics.DescriptionLength != 15 {
		t.Fatalf("description length = %d", result.Metrics.DescriptionLength)
	}
}

func TestAuditTitle(t *testing.T) {
	tests := []struct {
		title    string
		typ      models.IssueType
		contains string
	}{
		{"", models.IssueCritical, "missing"},
		{"Short", models.IssueWarning, "too short"},
		{strings.Repeat("Long title ", 7), models.IssueWarning, "too long"},
		{"Vite + React + TS", models.IssueCritical, "default template"},
	}
	for _, tt := range tests {
		t.Run(tt.contains, func(t *testing.T) {
			result := auditPage(t, "https://example.com/", page("<title>"+tt.title+"</title>", "<h1>x</h1>"))
			found := false
			for _, issue := range issuesIn(result, tt.typ, "Title") {
				if strings.Contains(issue.Description, tt.contains) {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected %s title issue containing %q, got %+v", tt.typ, tt.contains, result.Issues)
			}
		})
	}
}

func TestAuditImagesWithoutAlt(t *testing.T) {
	var imgs strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&imgs, `<img src="/img%d.png">`, i)
	}
	result := auditPage(t, "https://example.com/", page("", "<h1>Gallery</h1>"+imgs.String()))

	if result.Metrics.ImageCount != 5 || result.Metrics.ImagesWithoutAlt != 5 {
		t.Fatalf("metrics = %+v", result.Metrics)
	}
	if got := issuesIn(result, models.IssueWarning, "Images"); len(got) != 5 {
		t.Fatalf("expected 5 missing alt warnings, got %d", len(got))
	}
	lazy := 0
	for _, issue := range issuesIn(result, models.IssueInfo, "Images") {
		if strings.Contains(issue.Description, "lazy") {
			lazy++
		}
	}
	if lazy != 2 {
		t.Fatalf("only images after the first three need lazy loading, got %d", lazy)
	}
}

func TestAuditLowQualityAltText(t *testing.T) {
	result := auditPage(t, "https://example.com/", page("", `<h1>x</h1><img src="/a.png" alt="image" width="1" height="1">`))

	got := issuesIn(result, models.IssueInfo, "Images")
	if len(got) != 1 || !strings.Contains(got[0].Description, "Alt text quality") {
		t.Fatalf("expected one alt quality issue, got %+v", got)
	}
	if result.Metrics.ImagesWithoutAlt != 0 {
		t.Fatalf("present alt text should not count as missing")
	}
}

func TestAuditLinks(t *testing.T) {
	body := `<h1>x</h1>
		<a href="#top">Top</a>
		<a href="/projects">Projects</a>
		<a href="https://www.example.com/about">About</a>
		<a href="mailto:me@example.com">Mail</a>
		<a href="https://github.com/me">Unsafe external</a>
		<a href="https://gitlab.com/me" rel="noopener">Safe external</a>
		<a href="https://bitbucket.org/me" target="_blank">New tab external</a>`
	result := auditPage(t, "https://example.com/", page("", body))

	if result.Metrics.InternalLinks != 3 || result.Metrics.ExternalLinks != 3 {
		t.Fatalf("internal %d external %d", result.Metrics.InternalLinks, result.Metrics.ExternalLinks)
	}
	got := issuesIn(result, models.IssueInfo, "Links")
	if len(got) != 1 || got[0].Element != "https://github.com/me" {
		t.Fatalf("expected one unsafe external link issue, got %+v", got)
	}
	if hasRecommendation(result, "Add more internal links") {
		t.Fatalf("three internal links should be enough")
	}
}

func TestAuditSocialTags(t *testing.T) {
	head := `<meta property="og:title" content="t"><meta property="og:description" content="d">`
	result := auditPage(t, "https://example.com/", page(head, "<h1>x</h1>"))

	got := issuesIn(result, models.IssueWarning, "Social Media")
	if len(got) != 2 {
		t.Fatalf("expected tag count and og:image warnings, got %+v", got)
	}
	if result.Metrics.SocialTags != 2 {
		t.Fatalf("social tags = %d", result.Metrics.SocialTags)
	}
}

func TestAuditStructuredData(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		result := auditPage(t, "https://example.com/", page("", "<h1>x</h1>"))
		if !hasRecommendation(result, "Add structured data") {
			t.Fatalf("expected structured data recommendation")
		}
	})
	t.Run("invalid json", func(t *testing.T) {
		result := auditPage(t, "https://example.com/", page(`<script type="application/ld+json">{not json</script>`, "<h1>x</h1>"))
		if got := issuesIn(result, models.IssueWarning, "Structured Data"); len(got) != 1 {
			t.Fatalf("expected one warning, got %+v", got)
		}
	})
	t.Run("missing type", func(t *testing.T) {
		result := auditPage(t, "https://example.com/", page(`<script type="application/ld+json">{"@context":"https://schema.org"}</script>`, "<h1>x</h1>"))
		got := issuesIn(result, models.IssueWarning, "Structured Data")
		if len(got) != 1 || !strings.Contains(got[0].Description, "@type") {
			t.Fatalf("expected one missing @type warning, got %+v", got)
		}
	})
	t.Run("valid", func(t *testing.T) {
		result := auditPage(t, "https://example.com/", page(`<script type="application/ld+json">[{"@context":"https://schema.org","@type":"WebSite"}]</script>`, "<h1>x</h1>"))
		if got := issuesIn(result, models.IssueWarning, "Structured Data"); len(got) != 0 {
			t.Fatalf("unexpected warnings %+v", got)
		}
		if !result.Metrics.StructuredData {
			t.Fatalf("structured data not recorded")
		}
	})
}

func TestAuditMissingViewportFiresTwice(t *testing.T) {
	snap, err := ParseHTML("https://example.com/", strings.NewReader("<html><head><title>No viewport</title></head><body><h1>x</h1></body></html>"))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	result := RunSEOAudit(snap)

	if len(issuesIn(result, models.IssueCritical, "Technical SEO")) != 1 || len(issuesIn(result, models.IssueCritical, "Mobile")) != 1 {
		t.Fatalf("missing viewport should be reported by both the technical and mobile checks: %+v", result.Issues)
	}
}

func TestAuditHTTPS(t *testing.T) {
	plain := auditPage(t, "http://example.com/", page("", "<h1>x</h1>"))
	if len(issuesIn(plain, models.IssueCritical, "Technical SEO")) != 1 {
		t.Fatalf("expected an HTTPS issue, got %+v", plain.Issues)
	}
	local := auditPage(t, "http://localhost:5173/", page("", "<h1>x</h1>"))
	if len(issuesIn(local, models.IssueCritical, "Technical SEO")) != 0 {
		t.Fatalf("localhost should not need HTTPS, got %+v", local.Issues)
	}
}

func TestAuditTapTargetsAndPerformance(t *testing.T) {
	snap, err := ParseHTML("https://example.com/", strings.NewReader(page(strings.Repeat(`<link rel="stylesheet" href="/s.css">`, 6), "<h1>x</h1>")))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	snap.TapTargets = []TapTarget{{Tag: "a", Width: 20, Height: 20}, {Tag: "button", Width: 48, Height: 48}, {Tag: "a"}}
	snap.Images = append(snap.Images, Image{Src: "/huge.jpg", Alt: "A very large hero photograph", HasAlt: true, Width: "1", Height: "1", NaturalWidth: 4000, NaturalHeight: 3000})

	result := RunSEOAudit(snap)

	for _, title := range []string{"Enlarge touch targets", "Resize large images", "Reduce stylesheet count", "Add resource hints"} {
		if !hasRecommendation(result, title) {
			t.Errorf("missing recommendation %q", title)
		}
	}
	if hasRecommendation(result, "Reduce external scripts") {
		t.Errorf("no external scripts were loaded")
	}
}

func TestAuditBlogPostSignals(t *testing.T) {
	body := `<h1>Post</h1><p>Written by Alex Morgan.</p>`
	head := `<script type="application/ld+json">{"@context":"https://schema.org","@type":"Person","name":"Alex Morgan"}</script>`

	rules := DefaultRules()
	rules.AuthorName = "Alex Morgan"
	snap, err := ParseHTML("https://example.com/blog/post", strings.NewReader(page(head, body)))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	result := NewAuditor(rules).Audit(snap)

	if hasRecommendation(result, "Credit the author") {
		t.Errorf("author is mentioned in the text")
	}
	for _, title := range []string{"Add related content", "Add breadcrumbs", "Add a job title to the Person schema"} {
		if !hasRecommendation(result, title) {
			t.Errorf("missing recommendation %q", title)
		}
	}

	// the same page outside the blog skips the post checks
	snap.URL.Path = "/about"
	result = NewAuditor(rules).Audit(snap)
	if hasRecommendation(result, "Add breadcrumbs") || hasRecommendation(result, "Add related content") {
		t.Errorf("post checks should only run on blog paths")
	}
}

func TestAuditContentAnalysis(t *testing.T) {
	text := strings.Repeat("I built production React and TypeScript frontends with a Go backend api and database. ", 40)
	body := `<h1>Work</h1><p>` + text + `</p>
		<p>See <a href="/blog/first">my first post</a> and <a href="/blog/category/backend">backend posts</a>.</p>
		<p><a href="/about">About me</a> <a href="/projects">Projects</a></p>`
	result := auditPage(t, "https://example.com/", page("", body))

	ca := result.Metrics.ContentAnalysis
	if ca.WordCount < 300 {
		t.Errorf("word count = %d", ca.WordCount)
	}
	if len(issuesIn(result, models.IssueWarning, "Content Quality")) != 0 {
		t.Errorf("content should not be thin")
	}
	for _, kw := range []string{"react", "typescript", "go", "api", "database", "backend"} {
		found := false
		for _, got := range ca.SemanticKeywords {
			found = found || got == kw
		}
		if !found {
			t.Errorf("keyword %q not detected in %v", kw, ca.SemanticKeywords)
		}
	}
	if strings.Join(ca.TopicClusters, ",") != "backend,web-development" {
		t.Errorf("clusters = %v", ca.TopicClusters)
	}
	if ca.ExpertiseIndicators != 80 {
		t.Errorf("expertise indicators = %d", ca.ExpertiseIndicators)
	}
	if ca.ContextualLinks != 4 {
		t.Errorf("contextual links = %d", ca.ContextualLinks)
	}
	lb := result.Metrics.LinkBuilding
	if lb.RelatedArticleLinks != 2 || lb.CategoryLinks != 1 || lb.AuthorityLinks != 2 {
		t.Errorf("link building = %+v", lb)
	}
}

func TestAuditContentRecommendations(t *testing.T) {
	filler := strings.Repeat("filler ", 2100)
	repeated := strings.Repeat(`<a href="/x">click</a> `, 5)
	sparse := auditPage(t, "https://example.com/", page("", "<h1>Notes</h1><p>"+filler+repeated+"</p>"))

	text := strings.Repeat("I built production React and TypeScript frontends with a Go backend api and database. ", 40)
	rich := auditPage(t, "https://example.com/", page(`<meta name="robots" content="index, follow">`,
		`<h1>Work</h1><p>`+text+`</p>
		<p><a href="/blog/first">my first post</a> <a href="/about">About me</a> <a href="/projects">Projects</a></p>`))

	if wc := sparse.Metrics.ContentAnalysis.WordCount; wc <= 2000 {
		t.Fatalf("word count = %d", wc)
	}
	for _, title := range []string{
		"Diversify anchor text",
		"Consider splitting long content",
		"Add relevant keywords",
		"Establish a topical focus",
		"Add a robots meta tag",
	} {
		if !hasRecommendation(sparse, title) {
			t.Errorf("expected %q on the filler page", title)
		}
		if hasRecommendation(rich, title) {
			t.Errorf("unexpected %q on the varied page", title)
		}
	}
}

func TestAuditAnchorDiversityThreshold(t *testing.T) {
	links := func(unique, total int) string {
		var b strings.Builder
		b.WriteString("<h1>Links</h1><p>")
		for i := 0; i < total; i++ {
			fmt.Fprintf(&b, `<a href="/page-%d">anchor %d</a> `, i, min(i, unique-1))
		}
		b.WriteString("</p>")
		return b.String()
	}

	tests := []struct {
		unique, total int
		want          bool
	}{
		{7, 10, false},
		{6, 10, true},
		{1, 1, false},
	}
	for _, tt := range tests {
		result := auditPage(t, "https://example.com/", page("", links(tt.unique, tt.total)))
		if got := hasRecommendation(result, "Diversify anchor text"); got != tt.want {
			t.Errorf("%d unique of %d: recommendation = %v, want %v", tt.unique, tt.total, got, tt.want)
		}
	}
}

func TestAuditCategoryLinkCountsAsBlogLink(t *testing.T) {
	body := `<h1>Go</h1><p>More in <a href="/blog/category/go">the Go category</a>.</p>`
	result := auditPage(t, "https://example.com/", page("", body))

	lb := result.Metrics.LinkBuilding
	if lb.RelatedArticleLinks != 1 || lb.CategoryLinks != 1 {
		t.Fatalf("link building = %+v", lb)
	}
	if hasRecommendation(result, "Link to related articles") {
		t.Errorf("a blog category link should satisfy the related articles check")
	}

	result = auditPage(t, "https://example.com/", page("", `<h1>Go</h1><p><a href="/?category=go">Go</a></p>`))
	if lb := result.Metrics.LinkBuilding; lb.RelatedArticleLinks != 0 || lb.CategoryLinks != 1 {
		t.Fatalf("query category link = %+v", lb)
	}
}

func TestAuditThinContent(t *testing.T) {
	result := auditPage(t, "https://example.com/", page("", "<h1>Hi</h1><p>Too short.</p>"))
	if len(issuesIn(result, models.IssueWarning, "Content Quality")) != 1 {
		t.Fatalf("expected a thin content warning, got %+v", result.Issues)
	}
}

func TestAuditScoreClampsToZero(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><head></head><body>")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, `<img src="/%d.png">`, i)
	}
	b.WriteString("</body></html>")

	result := auditPage(t, "http://example.com/", b.String())
	if result.Score != 0 || result.Grade != "F" {
		t.Fatalf("score = %d grade = %s", result.Score, result.Grade)
	}
}

func TestAuditNilSnapshot(t *testing.T) {
	result := RunSEOAudit(nil)
	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score out of range: %d", result.Score)
	}
	if result.Issues == nil || result.Recommendations == nil {
		t.Fatalf("issues and recommendations should be empty slices")
	}
}

func TestAuditRecoversFromPanickingCheck(t *testing.T) {
	saved := checks
	t.Cleanup(func() { checks = saved })
	checks = append([]check{{"boom", func(*audit) { panic("boom") }}}, saved...)

	result := auditPage(t, "https://example.com/", page("", "<h2>no h1</h2>"))
	if len(issuesIn(result, models.IssueCritical, "Heading Structure")) != 1 {
		t.Fatalf("later checks should still run, got %+v", result.Issues)
	}
}

func TestAuditorMetricsAndClock(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

	a := NewAuditor(DefaultRules(), WithMetrics(m), WithClock(func() time.Time { return fixed }))
	snap, err := ParseHTML("https://example.com/", strings.NewReader(page("", "<h2>no h1</h2>")))
	if err != nil {
		t.Fatalf("ParseHTML: %v", err)
	}
	result := a.Audit(snap)

	if !result.AuditedAt.Equal(fixed) || result.AuditedAt.Location() != time.UTC {
		t.Errorf("audited at = %v", result.AuditedAt)
	}
	if result.ID == "" {
		t.Errorf("missing id")
	}
	if v := testutil.ToFloat64(m.AuditsTotal.WithLabelValues(result.Grade)); v != 1 {
		t.Errorf("audits counter = %v", v)
	}
	critical := float64(result.CountIssues(models.IssueCritical))
	if v := testutil.ToFloat64(m.IssuesTotal.WithLabelValues("critical")); v != critical {
		t.Errorf("critical issues counter = %v, want %v", v, critical)
	}
}
