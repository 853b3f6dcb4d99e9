package services

import (
	"regexp"
	"strings"

	"portfolio/pkg/models"
)

// FrontMatter holds coerced frontmatter values: string, bool or []string.
type FrontMatter map[string]any

var frontMatterBlock = regexp.MustCompile(`^---\s*\n([\s\S]*?)\n---\s*\n([\s\S]*)$`)

// ParseFrontMatter splits raw into its frontmatter block and markdown body.
// Without a leading "---" block the whole input is content and the
// frontmatter is empty. The dialect is line oriented: "key: value" pairs,
// flat [a, b] lists, true/false literals and quoted strings. Commas inside
// quoted list items are not protected.
func ParseFrontMatter(raw string) (FrontMatter, string) {
	raw = normalizeLineEndings(raw)
	fm := FrontMatter{}

	match := frontMatterBlock.FindStringSubmatch(raw)
	if match == nil {
		return fm, strings.TrimSpace(raw)
	}

	for _, line := range strings.Split(match[1], "\n") {
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		fm[key] = coerceValue(strings.TrimSpace(line[idx+1:]))
	}

	return fm, strings.TrimSpace(match[2])
}

func coerceValue(value string) any {
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		inner := strings.TrimSpace(value[1 : len(value)-1])
		items := []string{}
		if inner == "" {
			return items
		}
		for _, item := range strings.Split(inner, ",") {
			item = strings.Trim(strings.TrimSpace(item), `"'`)
			items = append(items, item)
		}
		return items
	}

	unquoted := stripQuotes(value)
	if unquoted == value {
		switch value {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return unquoted
}

func stripQuotes(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func normalizeLineEndings(input string) string {
	return strings.ReplaceAll(input, "\r\n", "\n")
}

// BuildArticle parses raw and wraps the result as an article published
// under slug. Values of the wrong shape degrade to zero values.
func BuildArticle(slug, raw string) models.Article {
	fm, body := ParseFrontMatter(raw)

	article := models.Article{
		Slug: slug,
		Metadata: models.ArticleMetadata{
			Title:       fm.String("title"),
			Description: fm.String("description"),
			Author:      fm.String("author"),
			Date:        fm.String("date"),
			Tags:        fm.List("tags"),
			Category:    fm.String("category"),
			Featured:    fm.Bool("featured"),
			Excerpt:     fm.String("excerpt"),
			Gradient:    fm.String("gradient"),
		},
		Content: body,
	}

	for key, value := range fm {
		if knownMetadataKeys[key] {
			continue
		}
		if article.Extra == nil {
			article.Extra = map[string]any{}
		}
		article.Extra[key] = value
	}
	return article
}

var knownMetadataKeys = map[string]bool{
	"title": true, "description": true, "author": true, "date": true, "tags": true,
	"category": true, "featured": true, "excerpt": true, "gradient": true,
}

// String returns key as text. Lists are joined with ", " and booleans
// are formatted as literals.
func (fm FrontMatter) String(key string) string {
	switch v := fm[key].(type) {
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// List returns key as a list. A scalar string becomes a one item list.
func (fm FrontMatter) List(key string) []string {
	switch v := fm[key].(type) {
	case []string:
		return append([]string{}, v...)
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}

// Bool returns key as a boolean. The quoted string "true" also counts.
func (fm FrontMatter) Bool(key string) bool {
	switch v := fm[key].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	default:
		return false
	}
}
