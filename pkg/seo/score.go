package seo

import "portfolio/pkg/models"

var issuePenalty = map[models.IssueType]int{
	models.IssueCritical: 20,
	models.IssueWarning:  10,
	models.IssueInfo:     5,
}

// Score starts at 100, subtracts a penalty per issue, adds bonuses for the
// positive signals in m and clamps the result to [0, 100].
func Score(issues []models.SEOIssue, m models.SEOMetrics) int {
	score := 100
	for _, issue := range issues {
		score -= issuePenalty[issue.Type]
	}

	ca, lb := m.ContentAnalysis, m.LinkBuilding
	bonuses := []struct {
		ok     bool
		points int
	}{
		{m.StructuredData, 5},
		{m.SocialTags >= 6, 5},
		{m.CanonicalURL, 2},
		{m.ImageCount > 0 && m.ImagesWithoutAlt == 0, 3},
		{ca.WordCount >= 300, 3},
		{len(ca.SemanticKeywords) >= 5, 5},
		{len(ca.TopicClusters) >= 2, 5},
		{ca.ContextualLinks >= 3, 5},
		{ca.ExpertiseIndicators >= 3, 3},
		{lb.RelatedArticleLinks >= 2, 3},
		{lb.CategoryLinks >= 3, 3},
		{lb.AuthorityLinks >= 2, 2},
		{lb.TopicalRelevance >= 5, 5},
	}
	for _, b := range bonuses {
		if b.ok {
			score += b.points
		}
	}

	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

// Grade maps a score to a letter grade.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
