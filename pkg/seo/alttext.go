package seo

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AltTextResult is the verdict of ValidateAltText.
type AltTextResult struct {
	Valid       bool     `json:"valid"`
	Score       int      `json:"score"`
	Suggestions []string `json:"suggestions"`
	Improved    string   `json:"improved,omitempty"`
}

var genericAltTerms = map[string]bool{
	"image": true, "picture": true, "photo": true, "img": true, "graphic": true, "banner": true,
}

var redundantAltPhrases = []string{
	"image of", "picture of", "photo of", "graphic of", "screenshot of", "img of",
}

var redundantAltPatterns = foldPatterns(redundantAltPhrases)

var selfReferentialAltPhrases = []string{"alt text", "alternative text"}

const minValidAltScore = 70

// ValidateAltText scores alt text out of 100. context, usually the page or
// section title, is used to suggest replacements for empty or very short text.
func ValidateAltText(alt, context string) AltTextResult {
	alt = strings.TrimSpace(alt)
	context = strings.TrimSpace(context)

	if alt == "" {
		result := AltTextResult{
			Score:       0,
			Suggestions: []string{"Add alt text that describes the image content and its purpose"},
		}
		if context != "" {
			result.Improved = "Image related to " + context
			result.Suggestions = append(result.Suggestions, "Consider: "+result.Improved)
		}
		return result
	}

	score := 100
	var suggestions []string
	lower := strings.ToLower(alt)
	length := utf8.RuneCountInString(alt)

	if genericAltTerms[lower] {
		score -= 50
		suggestions = append(suggestions, "Replace the generic term with a description of what the image shows")
	}
	if length < 10 {
		score -= 20
		suggestions = append(suggestions, "Alt text is very short; describe the image in more detail")
	}
	if length > 125 {
		score -= 10
		suggestions = append(suggestions, "Alt text is long; keep it under 125 characters")
	}
	if containsAny(lower, redundantAltPhrases) {
		score -= 10
		suggestions = append(suggestions, `Drop lead-ins like "image of"; screen readers already announce images`)
	}
	if containsAny(lower, selfReferentialAltPhrases) {
		score -= 30
		suggestions = append(suggestions, "Describe the image instead of referring to the alt text itself")
	}
	if score < 0 {
		score = 0
	}

	result := AltTextResult{
		Valid:       score >= minValidAltScore,
		Score:       score,
		Suggestions: suggestions,
	}
	if !result.Valid {
		result.Improved = ImproveAltText(alt, context)
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result
}

// ImproveAltText strips redundant lead-ins, capitalizes the first letter and
// appends context when the result is still shorter than 15 characters.
func ImproveAltText(alt, context string) string {
	improved := strings.TrimSpace(alt)
	for _, re := range redundantAltPatterns {
		improved = re.ReplaceAllString(improved, "")
	}
	improved = collapseSpace(improved)

	if improved != "" {
		r, size := utf8.DecodeRuneInString(improved)
		improved = string(unicode.ToUpper(r)) + improved[size:]
	}

	context = strings.TrimSpace(context)
	if utf8.RuneCountInString(improved) < 15 && context != "" {
		if improved == "" {
			improved = context
		} else {
			improved = improved + " - " + context
		}
	}
	return improved
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// foldPatterns compiles each phrase into a case-insensitive literal match.
func foldPatterns(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, regexp.MustCompile("(?i)"+regexp.QuoteMeta(p)))
	}
	return out
}
