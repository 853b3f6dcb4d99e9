package seo

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Rules holds the site specific vocabularies and paths the audit checks
// match against. DefaultRules returns the built-in set; LoadRules overlays a
// TOML file on top of it.
type Rules struct {
	// SiteHost is the site's own host; links to it count as internal.
	SiteHost string `toml:"site_host"`
	// AuthorName is looked for in the text of blog posts.
	AuthorName string `toml:"author_name"`
	// PlaceholderTitle is the title a project template ships with.
	PlaceholderTitle   string `toml:"placeholder_title"`
	BlogPathPrefix     string `toml:"blog_path_prefix"`
	CategoryPathPrefix string `toml:"category_path_prefix"`

	SocialTags       []string            `toml:"social_tags"`
	Keywords         []string            `toml:"keywords"`
	TopicClusters    map[string][]string `toml:"topic_clusters"`
	ClusterThreshold int                 `toml:"cluster_threshold"`
	ExpertiseSignals []string            `toml:"expertise_signals"`

	EATExpertise []string `toml:"eat_expertise"`
	EATAuthority []string `toml:"eat_authority"`
	EATTrust     []string `toml:"eat_trust"`

	AuthorityPaths        []string `toml:"authority_paths"`
	RelatedContentPhrases []string `toml:"related_content_phrases"`
}

// DefaultRules returns the built-in rule set for a developer portfolio.
func DefaultRules() Rules {
	return Rules{
		PlaceholderTitle:   "Vite + React + TS",
		BlogPathPrefix:     "/blog/",
		CategoryPathPrefix: "/blog/category/",
		SocialTags: []string{
			"og:title", "og:description", "og:image", "og:url",
			"twitter:card", "twitter:title", "twitter:description", "twitter:image",
		},
		Keywords: []string{
			"react", "typescript", "javascript", "node.js", "go", "python",
			"web development", "full stack", "frontend", "backend", "software engineer",
			"api", "database", "cloud", "devops", "performance", "accessibility",
			"architecture", "testing", "seo",
		},
		TopicClusters: map[string][]string{
			"web-development": {"react", "javascript", "typescript", "frontend", "css", "html"},
			"backend":         {"api", "database", "server", "backend", "microservices", "go"},
			"devops":          {"docker", "kubernetes", "ci/cd", "deployment", "cloud", "monitoring"},
			"ai-ml":           {"machine learning", "artificial intelligence", "neural network", "data science", "model"},
			"design":          {"ui", "ux", "design system", "figma", "user experience"},
		},
		ClusterThreshold: 2,
		ExpertiseSignals: []string{
			"years of experience", "expert", "specialist", "certified", "professional",
			"senior", "lead", "architect", "built", "developed", "designed", "implemented",
			"delivered", "production",
		},
		EATExpertise: []string{
			"experience", "expertise", "specialized", "in-depth", "hands-on",
			"best practices", "case study", "lessons learned",
		},
		EATAuthority: []string{
			"published", "featured", "speaker", "contributor", "open source",
			"maintainer", "award", "recognized",
		},
		EATTrust: []string{
			"updated", "sources", "references", "contact", "privacy",
			"transparent", "verified", "testimonial",
		},
		AuthorityPaths: []string{"/about", "/projects", "/skills", "/resume"},
		RelatedContentPhrases: []string{
			"related", "see also", "further reading", "you might also like",
			"read more", "next article", "previous article",
		},
	}
}

// LoadRules reads a TOML file over the default rules. Keys absent from the
// file keep their default value. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if strings.TrimSpace(path) == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("read audit rules %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("decode audit rules %s: %w", path, err)
	}
	return rules, nil
}
