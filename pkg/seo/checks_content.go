package seo

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"portfolio/pkg/models"
)

const (
	minWordCount        = 300
	maxWordCount        = 2000
	wordsPerMinute      = 200
	minSemanticKeywords = 3
	minContextualLinks  = 2
	minRelatedLinks     = 1
	minAnchorDiversity  = 0.7
	minAuthorityLinks   = 2
	minTopicalRelevance = 5
)

func (r *audit) checkContentQuality() {
	text := r.snap.Text
	lower := strings.ToLower(text)

	words := 0
	for _, w := range strings.Fields(text) {
		if utf8.RuneCountInString(w) > 3 {
			words++
		}
	}
	ca := &r.metrics.ContentAnalysis
	ca.WordCount = words
	ca.ReadingTime = (words + wordsPerMinute - 1) / wordsPerMinute

	if words < minWordCount {
		r.issue(models.IssueWarning, "Content Quality", fmt.Sprintf("Content is thin (%d words)", words), "body",
			"Expand the page to at least 300 words of useful content")
	}
	if words > maxWordCount {
		r.recommend(models.PriorityLow, "Content Quality", "Consider splitting long content",
			fmt.Sprintf("The page has %d words", words),
			"Break the content into sections with a table of contents, or split it into a series")
	}

	for _, kw := range r.rules.Keywords {
		if countTerm(lower, kw) > 0 {
			ca.SemanticKeywords = append(ca.SemanticKeywords, kw)
		}
	}

	clusters := make([]string, 0, len(r.rules.TopicClusters))
	for name := range r.rules.TopicClusters {
		clusters = append(clusters, name)
	}
	sort.Strings(clusters)
	threshold := r.rules.ClusterThreshold
	if threshold < 1 {
		threshold = 1
	}
	for _, name := range clusters {
		matched := 0
		for _, kw := range r.rules.TopicClusters[name] {
			if countTerm(lower, kw) > 0 {
				matched++
			}
		}
		if matched >= threshold {
			ca.TopicClusters = append(ca.TopicClusters, name)
		}
	}

	for _, phrase := range r.rules.ExpertiseSignals {
		ca.ExpertiseIndicators += countTerm(lower, phrase)
	}

	if len(ca.SemanticKeywords) < minSemanticKeywords {
		r.recommend(models.PriorityMedium, "Content Quality", "Add relevant keywords",
			fmt.Sprintf("Only %d domain keywords were found in the content", len(ca.SemanticKeywords)),
			"Mention the technologies and skills the page is about in headings and body text")
	}
	if len(ca.TopicClusters) == 0 {
		r.recommend(models.PriorityMedium, "Content Quality", "Establish a topical focus",
			"The content does not cover any topic cluster in depth",
			"Group related terms around one main topic so search engines can tell what the page is about")
	}
}

func (r *audit) checkInternalLinking() {
	var internal []classifiedLink
	for _, link := range r.classifyLinks() {
		if link.kind == linkInternal {
			internal = append(internal, link)
		}
	}

	lb := &r.metrics.LinkBuilding
	contextual := 0
	texts := map[string]struct{}{}
	for _, link := range internal {
		if link.Contextual {
			contextual++
		}
		texts[strings.ToLower(link.Text)] = struct{}{}

		// a category page under the blog prefix counts toward both
		if r.isCategoryPath(link) {
			lb.CategoryLinks++
		}
		if r.isBlogPostPath(link.path) {
			lb.RelatedArticleLinks++
		}
		if r.isAuthorityPath(link.path) {
			lb.AuthorityLinks++
		}
	}
	r.metrics.ContentAnalysis.ContextualLinks = contextual

	if contextual < minContextualLinks {
		r.recommend(models.PriorityHigh, "Internal Linking", "Add contextual links",
			fmt.Sprintf("Only %d internal links are placed within the content", contextual),
			"Link to related projects and articles from inside paragraphs and lists")
	}
	if lb.RelatedArticleLinks < minRelatedLinks {
		r.recommend(models.PriorityMedium, "Internal Linking", "Link to related articles",
			"No links to blog articles were found",
			"Add a related articles section or inline links to other posts")
	}
	if len(internal) > 0 {
		diversity := float64(len(texts)) / float64(len(internal))
		if diversity < minAnchorDiversity {
			r.recommend(models.PriorityLow, "Internal Linking", "Diversify anchor text",
				fmt.Sprintf("Anchor text diversity is %.0f%%", diversity*100),
				"Use descriptive, varied anchor text instead of repeating the same words")
		}
	}
	if lb.AuthorityLinks < minAuthorityLinks {
		r.recommend(models.PriorityMedium, "Internal Linking", "Link to authority pages",
			fmt.Sprintf("Only %d links point at the about, projects, skills or resume pages", lb.AuthorityLinks),
			"Link to pages that establish who wrote the content and what they have built")
	}
}

func (r *audit) isBlogPostPath(p string) bool {
	prefix := r.rules.BlogPathPrefix
	return prefix != "" && strings.HasPrefix(p, prefix) && len(strings.Trim(p[len(prefix):], "/")) > 0
}

func (r *audit) isCategoryPath(link classifiedLink) bool {
	if prefix := r.rules.CategoryPathPrefix; prefix != "" && strings.HasPrefix(link.path, prefix) {
		return true
	}
	return link.query.Get("category") != ""
}

func (r *audit) isAuthorityPath(p string) bool {
	p = strings.TrimSuffix(p, "/")
	for _, authority := range r.rules.AuthorityPaths {
		if p == strings.TrimSuffix(authority, "/") {
			return true
		}
	}
	return false
}

func (r *audit) checkTopicalRelevance() {
	lower := strings.ToLower(r.snap.Text)

	relevance := 0
	for _, list := range [][]string{r.rules.EATExpertise, r.rules.EATAuthority, r.rules.EATTrust} {
		for _, phrase := range list {
			if countTerm(lower, phrase) > 0 {
				relevance++
			}
		}
	}
	r.metrics.LinkBuilding.TopicalRelevance = relevance

	if relevance < minTopicalRelevance {
		r.recommend(models.PriorityHigh, "E-A-T", "Strengthen expertise, authority and trust signals",
			fmt.Sprintf("Only %d E-A-T signals were found in the content", relevance),
			"Mention hands-on experience, published work and how readers can verify or contact you")
	}

	if r.isBlogPostPath(r.snap.Path()) {
		if !r.mentionsAuthor(lower) {
			r.recommend(models.PriorityMedium, "E-A-T", "Credit the author",
				"The article does not name its author",
				"Add an author byline linking to the about page")
		}
		if !containsAnyTerm(lower, r.rules.RelatedContentPhrases) {
			r.recommend(models.PriorityHigh, "E-A-T", "Add related content",
				"The article does not point readers to related content",
				"Add a related articles or further reading section at the end of the post")
		}
		if !r.snap.Breadcrumb {
			r.recommend(models.PriorityMedium, "E-A-T", "Add breadcrumbs",
				"The article has no breadcrumb navigation",
				"Add a breadcrumb nav and BreadcrumbList structured data")
		}
	}

	if r.personMissingJobTitle() {
		r.recommend(models.PriorityMedium, "E-A-T", "Add a job title to the Person schema",
			"The Person structured data has no jobTitle",
			`Add "jobTitle" to the Person object to describe the author's role`)
	}
}

func (r *audit) mentionsAuthor(lowerText string) bool {
	if name := strings.TrimSpace(r.rules.AuthorName); name != "" {
		return strings.Contains(lowerText, strings.ToLower(name))
	}
	author, ok := r.snap.MetaContent("author")
	return ok && strings.TrimSpace(author) != ""
}

func (r *audit) personMissingJobTitle() bool {
	for _, raw := range r.snap.StructuredData {
		nodes, err := decodeJSONLD(raw)
		if err != nil {
			continue
		}
		for _, node := range nodes {
			if !hasType(node, "Person") {
				continue
			}
			if _, ok := node.(map[string]any)["jobTitle"]; !ok {
				return true
			}
		}
	}
	return false
}

func containsAnyTerm(lowerText string, terms []string) bool {
	for _, t := range terms {
		if countTerm(lowerText, t) > 0 {
			return true
		}
	}
	return false
}

// countTerm counts occurrences of term in text that are not part of a longer
// word. Both arguments are compared case-insensitively.
func countTerm(text, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0
	}
	text = strings.ToLower(text)

	count := 0
	for offset := 0; offset < len(text); {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			break
		}
		start := offset + idx
		end := start + len(term)
		if wordBoundaryBefore(text, start) && wordBoundaryAfter(text, end) {
			count++
		}
		offset = start + 1
	}
	return count
}

func wordBoundaryBefore(text string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func wordBoundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
