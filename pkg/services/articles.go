package services

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"portfolio/pkg/logger"
	"portfolio/pkg/metrics"
	"portfolio/pkg/models"
)

// ErrArticleNotFound is returned by the API layer for unknown slugs.
var ErrArticleNotFound = errors.New("article not found")

// LibraryConfig configures a Library.
type LibraryConfig struct {
	// ManifestFile is the manifest path inside the source filesystem.
	ManifestFile string
	// Concurrency bounds how many sources are read at once.
	Concurrency int
	Logger      *zap.Logger
	Metrics     *metrics.Metrics
}

// Library loads the blog's articles from a source filesystem. It keeps no
// state between calls: every query re-reads and re-parses all sources.
type Library struct {
	fs           fs.FS
	manifestFile string
	concurrency  int
	logger       *zap.Logger
	metrics      *metrics.Metrics
}

// NewLibrary constructs a Library over fsys.
func NewLibrary(fsys fs.FS, cfg LibraryConfig) *Library {
	manifest := cfg.ManifestFile
	if strings.TrimSpace(manifest) == "" {
		manifest = "manifest.yml"
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Library{
		fs:           fsys,
		manifestFile: manifest,
		concurrency:  concurrency,
		logger:       logger.OrNop(cfg.Logger),
		metrics:      cfg.Metrics,
	}
}

// LoadArticles returns every article in the manifest, newest first. It never
// fails: if any source cannot be read the sample article is returned in its
// place, and if the manifest itself is unusable the result is empty.
func (l *Library) LoadArticles(ctx context.Context) []models.Article {
	manifest, err := ReadManifest(l.fs, l.manifestFile)
	if err != nil {
		l.logger.Error("failed to load article manifest", zap.String("manifest", l.manifestFile), zap.Error(err))
		return []models.Article{}
	}

	raws := make([]string, len(manifest.Articles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, entry := range manifest.Articles {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := ReadSource(l.fs, entry.Source)
			if err != nil {
				l.logger.Error("failed to read article source", zap.String("source", entry.Source), zap.Error(err))
				return err
			}
			raws[i] = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Warn("using fallback article", zap.Error(err))
		if l.metrics != nil {
			l.metrics.LoadFallbacks.Inc()
		}
		return []models.Article{FallbackArticle()}
	}

	articles := make([]models.Article, 0, len(manifest.Articles))
	for i, entry := range manifest.Articles {
		articles = append(articles, BuildArticle(entry.Slug, raws[i]))
	}
	SortByDate(articles)

	if l.metrics != nil {
		l.metrics.ArticlesLoaded.Add(float64(len(articles)))
	}
	l.logger.Debug("articles loaded", zap.Int("count", len(articles)))
	return articles
}

// ArticleBySlug returns the first article published under slug.
func (l *Library) ArticleBySlug(ctx context.Context, slug string) (*models.Article, bool) {
	for _, a := range l.LoadArticles(ctx) {
		if a.Slug == slug {
			return &a, true
		}
	}
	return nil, false
}

// FeaturedArticles returns the articles flagged as featured.
func (l *Library) FeaturedArticles(ctx context.Context) []models.Article {
	return filterArticles(l.LoadArticles(ctx), func(a models.Article) bool {
		return a.Metadata.Featured
	})
}

// ArticlesByCategory returns the articles whose category equals category.
func (l *Library) ArticlesByCategory(ctx context.Context, category string) []models.Article {
	return filterArticles(l.LoadArticles(ctx), func(a models.Article) bool {
		return a.Metadata.Category == category
	})
}

// ArticlesByTag returns the articles carrying tag.
func (l *Library) ArticlesByTag(ctx context.Context, tag string) []models.Article {
	return filterArticles(l.LoadArticles(ctx), func(a models.Article) bool {
		return a.HasTag(tag)
	})
}

// AllCategories returns the sorted set of categories.
func (l *Library) AllCategories(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, a := range l.LoadArticles(ctx) {
		seen[a.Metadata.Category] = struct{}{}
	}
	return sortedKeys(seen)
}

// AllTags returns the sorted set of tags across all articles.
func (l *Library) AllTags(ctx context.Context) []string {
	seen := map[string]struct{}{}
	for _, a := range l.LoadArticles(ctx) {
		for _, tag := range a.Metadata.Tags {
			seen[tag] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// RelatedArticles returns up to limit articles sharing the category or a tag
// with the article published under slug, most shared tags first.
func (l *Library) RelatedArticles(ctx context.Context, slug string, limit int) []models.Article {
	articles := l.LoadArticles(ctx)
	var current *models.Article
	for i := range articles {
		if articles[i].Slug == slug {
			current = &articles[i]
			break
		}
	}
	if current == nil {
		return []models.Article{}
	}

	type candidate struct {
		article models.Article
		score   int
	}
	var candidates []candidate
	for _, a := range articles {
		if a.Slug == slug {
			continue
		}
		score := 0
		if a.Metadata.Category != "" && a.Metadata.Category == current.Metadata.Category {
			score += 2
		}
		for _, tag := range current.Metadata.Tags {
			if a.HasTag(tag) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, candidate{article: a, score: score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	related := []models.Article{}
	for _, c := range candidates {
		if limit > 0 && len(related) >= limit {
			break
		}
		related = append(related, c.article)
	}
	return related
}

// FallbackArticle is served when the bundled sources cannot be read.
func FallbackArticle() models.Article {
	return models.Article{
		Slug: "welcome",
		Metadata: models.ArticleMetadata{
			Title:       "Welcome to the Blog",
			Description: "Articles are temporarily unavailable. This placeholder is shown until the content can be loaded again.",
			Author:      "Site Owner",
			Date:        "2024-01-01",
			Tags:        []string{"Announcement"},
			Category:    "General",
			Featured:    true,
			Excerpt:     "Articles are temporarily unavailable.",
			Gradient:    "from-gray-500 to-gray-700",
		},
		Content: "# Welcome\n\nArticles are temporarily unavailable. Please check back soon.",
	}
}

// SortByDate orders articles newest first. Undated or unparseable dates sort
// last; ties keep manifest order.
func SortByDate(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return ParseDate(articles[i].Metadata.Date).After(ParseDate(articles[j].Metadata.Date))
	})
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate parses the date formats used in frontmatter. It returns the zero
// time when value matches none of them.
func ParseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ReadingTime estimates minutes to read content at 200 words per minute.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + 199) / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

func filterArticles(articles []models.Article, keep func(models.Article) bool) []models.Article {
	out := []models.Article{}
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}
