package seo

import (
	"fmt"
	"strings"
	"time"

	"portfolio/pkg/models"
)

// GenerateReport renders result as a plain text report.
func GenerateReport(result *models.SEOAuditResult) string {
	if result == nil {
		result = &models.SEOAuditResult{}
	}
	var b strings.Builder
	m := result.Metrics

	b.WriteString("SEO AUDIT REPORT\n")
	b.WriteString("================\n\n")
	if result.URL != "" {
		fmt.Fprintf(&b, "URL: %s\n", result.URL)
	}
	fmt.Fprintf(&b, "Overall Score: %d/100 (Grade: %s)\n\n", result.Score, result.Grade)

	section(&b, "METRICS SUMMARY")
	fmt.Fprintf(&b, "Title Length: %d characters\n", m.TitleLength)
	fmt.Fprintf(&b, "Meta Description Length: %d characters\n", m.DescriptionLength)
	fmt.Fprintf(&b, "Images: %d (%d without alt text)\n", m.ImageCount, m.ImagesWithoutAlt)
	h := m.HeadingStructure
	fmt.Fprintf(&b, "Headings: H1=%d H2=%d H3=%d H4=%d H5=%d H6=%d\n", h.H1, h.H2, h.H3, h.H4, h.H5, h.H6)
	fmt.Fprintf(&b, "Internal Links: %d\n", m.InternalLinks)
	fmt.Fprintf(&b, "External Links: %d\n", m.ExternalLinks)
	fmt.Fprintf(&b, "Social Media Tags: %d\n", m.SocialTags)
	fmt.Fprintf(&b, "Structured Data: %s\n", yesNo(m.StructuredData))
	fmt.Fprintf(&b, "Canonical URL: %s\n", yesNo(m.CanonicalURL))
	fmt.Fprintf(&b, "Mobile Viewport: %s\n\n", yesNo(m.MetaViewport))

	ca := m.ContentAnalysis
	section(&b, "CONTENT ANALYSIS")
	fmt.Fprintf(&b, "Word Count: %d\n", ca.WordCount)
	fmt.Fprintf(&b, "Reading Time: %d min\n", ca.ReadingTime)
	fmt.Fprintf(&b, "Topic Clusters: %s\n", listOrNone(ca.TopicClusters))
	fmt.Fprintf(&b, "Semantic Keywords: %s\n", listOrNone(ca.SemanticKeywords))
	fmt.Fprintf(&b, "Contextual Links: %d\n", ca.ContextualLinks)
	fmt.Fprintf(&b, "Expertise Indicators: %d\n\n", ca.ExpertiseIndicators)

	lb := m.LinkBuilding
	section(&b, "LINK BUILDING")
	fmt.Fprintf(&b, "Related Article Links: %d\n", lb.RelatedArticleLinks)
	fmt.Fprintf(&b, "Category Links: %d\n", lb.CategoryLinks)
	fmt.Fprintf(&b, "Authority Links: %d\n", lb.AuthorityLinks)
	fmt.Fprintf(&b, "Topical Relevance Score: %d\n\n", lb.TopicalRelevance)

	section(&b, fmt.Sprintf("ISSUES (%d)", len(result.Issues)))
	if len(result.Issues) == 0 {
		b.WriteString("No issues found.\n")
	}
	for i, issue := range result.Issues {
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, strings.ToUpper(string(issue.Type)), issue.Category, issue.Description)
		if issue.Element != "" {
			fmt.Fprintf(&b, "   Element: %s\n", issue.Element)
		}
		fmt.Fprintf(&b, "   Recommendation: %s\n", issue.Recommendation)
	}
	b.WriteString("\n")

	section(&b, fmt.Sprintf("RECOMMENDATIONS (%d)", len(result.Recommendations)))
	if len(result.Recommendations) == 0 {
		b.WriteString("No recommendations.\n")
	}
	for i, rec := range result.Recommendations {
		fmt.Fprintf(&b, "%d. [%s] %s: %s\n", i+1, strings.ToUpper(string(rec.Priority)), rec.Category, rec.Title)
		fmt.Fprintf(&b, "   %s\n", rec.Description)
		fmt.Fprintf(&b, "   Implementation: %s\n", rec.Implementation)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Report generated: %s\n", result.AuditedAt.Format(time.RFC3339))
	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(title)))
	b.WriteString("\n")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
