package models

import "time"

// IssueType is the severity of an SEO issue.
type IssueType string

const (
	IssueCritical IssueType = "critical"
	IssueWarning  IssueType = "warning"
	IssueInfo     IssueType = "info"
)

// Priority ranks an SEO recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type SEOIssue struct {
	Type           IssueType `json:"type"`
	Category       string    `json:"category"`
	Description    string    `json:"description"`
	Element        string    `json:"element,omitempty"`
	Recommendation string    `json:"recommendation"`
}

type SEORecommendation struct {
	Priority       Priority `json:"priority"`
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Implementation string   `json:"implementation"`
}

// HeadingCounts holds the number of headings per level.
type HeadingCounts struct {
	H1 int `json:"h1"`
	H2 int `json:"h2"`
	H3 int `json:"h3"`
	H4 int `json:"h4"`
	H5 int `json:"h5"`
	H6 int `json:"h6"`
}

// Add increments the counter for level (1-6). Other levels are ignored.
func (h *HeadingCounts) Add(level int) {
	switch level {
	case 1:
		h.H1++
	case 2:
		h.H2++
	case 3:
		h.H3++
	case 4:
		h.H4++
	case 5:
		h.H5++
	case 6:
		h.H6++
	}
}

type ContentAnalysis struct {
	WordCount           int      `json:"wordCount"`
	ReadingTime         int      `json:"readingTime"`
	TopicClusters       []string `json:"topicClusters"`
	SemanticKeywords    []string `json:"semanticKeywords"`
	ContextualLinks     int      `json:"contextualLinks"`
	ExpertiseIndicators int      `json:"expertiseIndicators"`
}

type LinkBuilding struct {
	RelatedArticleLinks int `json:"relatedArticleLinks"`
	CategoryLinks       int `json:"categoryLinks"`
	AuthorityLinks      int `json:"authorityLinks"`
	TopicalRelevance    int `json:"topicalRelevance"`
}

// SEOMetrics is recomputed on every audit run.
type SEOMetrics struct {
	TitleLength       int             `json:"titleLength"`
	DescriptionLength int             `json:"descriptionLength"`
	ImageCount        int             `json:"imageCount"`
	ImagesWithoutAlt  int             `json:"imagesWithoutAlt"`
	HeadingStructure  HeadingCounts   `json:"headingStructure"`
	InternalLinks     int             `json:"internalLinks"`
	ExternalLinks     int             `json:"externalLinks"`
	SocialTags        int             `json:"socialTags"`
	StructuredData    bool            `json:"structuredData"`
	CanonicalURL      bool            `json:"canonicalUrl"`
	MetaViewport      bool            `json:"metaViewport"`
	ContentAnalysis   ContentAnalysis `json:"contentAnalysis"`
	LinkBuilding      LinkBuilding    `json:"linkBuilding"`
}

// SEOAuditResult is the outcome of a single audit run.
type SEOAuditResult struct {
	ID              string              `json:"id"`
	URL             string              `json:"url"`
	Score           int                 `json:"score"`
	Grade           string              `json:"grade"`
	Issues          []SEOIssue          `json:"issues"`
	Recommendations []SEORecommendation `json:"recommendations"`
	Metrics         SEOMetrics          `json:"metrics"`
	AuditedAt       time.Time           `json:"auditedAt"`
}

// CountIssues returns the number of issues of the given type.
func (r *SEOAuditResult) CountIssues(t IssueType) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Type == t {
			n++
		}
	}
	return n
}
