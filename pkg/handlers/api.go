package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"portfolio/pkg/logger"
	"portfolio/pkg/metrics"
	"portfolio/pkg/models"
	"portfolio/pkg/seo"
	"portfolio/pkg/services"
)

// Server serves the blog's article API, rendered article pages and the SEO
// audit endpoints.
type Server struct {
	library      *services.Library
	auditor      *services.PageAuditor
	limiter      *rate.Limiter
	historyLimit int
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// Config wires a Server.
type Config struct {
	Library *services.Library
	Auditor *services.PageAuditor
	// AuditsPerMinute caps live URL audits. Zero or less disables the cap.
	AuditsPerMinute int
	HistoryLimit    int
	Metrics         *metrics.Metrics
	Logger          *zap.Logger
}

func NewServer(cfg Config) *Server {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.AuditsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.AuditsPerMinute)/60), cfg.AuditsPerMinute)
	}
	historyLimit := cfg.HistoryLimit
	if historyLimit < 1 {
		historyLimit = 20
	}
	return &Server{
		library:      cfg.Library,
		auditor:      cfg.Auditor,
		limiter:      limiter,
		historyLimit: historyLimit,
		metrics:      cfg.Metrics,
		logger:       logger.OrNop(cfg.Logger),
	}
}

func (s *Server) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()

	var articles []models.Article
	switch category, tag := c.Query("category"), c.Query("tag"); {
	case category != "":
		articles = s.library.ArticlesByCategory(ctx, category)
		if tag != "" {
			articles = keepArticles(articles, func(a models.Article) bool { return a.HasTag(tag) })
		}
	case tag != "":
		articles = s.library.ArticlesByTag(ctx, tag)
	default:
		articles = s.library.LoadArticles(ctx)
	}
	if featured, _ := strconv.ParseBool(c.Query("featured")); featured {
		articles = keepArticles(articles, func(a models.Article) bool { return a.Metadata.Featured })
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) GetArticle(c *gin.Context) {
	ctx := c.Request.Context()
	slug := c.Param("slug")

	article, ok := s.library.ArticleBySlug(ctx, slug)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": services.ErrArticleNotFound.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"article":      article,
		"reading_time": services.ReadingTime(article.Content),
		"related":      s.library.RelatedArticles(ctx, slug, 3),
	})
}

func (s *Server) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, s.library.AllCategories(c.Request.Context()))
}

func (s *Server) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, s.library.AllTags(c.Request.Context()))
}

// ArticlePage serves the rendered HTML page of an article.
func (s *Server) ArticlePage(c *gin.Context) {
	page, _, err := s.auditor.RenderArticle(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, services.ErrArticleNotFound) {
			c.String(http.StatusNotFound, "Article not found")
			return
		}
		s.logger.Error("failed to render article", zap.String("slug", c.Param("slug")), zap.Error(err))
		c.String(http.StatusInternalServerError, "Render failed")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

type auditRequest struct {
	Slug string `json:"slug"`
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// RunAudit audits one page. The body names an article slug, a live URL, or
// raw HTML with the URL it is served at. With ?format=text the plain text
// report is returned instead of JSON.
func (s *Server) RunAudit(c *gin.Context) {
	var req auditRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	ctx := c.Request.Context()

	var (
		result *models.SEOAuditResult
		err    error
	)
	switch {
	case strings.TrimSpace(req.HTML) != "":
		result, err = s.auditor.AuditHTML(req.URL, strings.NewReader(req.HTML))
	case req.Slug != "":
		result, err = s.auditor.AuditSlug(ctx, req.Slug)
	case req.URL != "":
		if !validPageURL(req.URL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL: " + req.URL})
			return
		}
		if !s.limiter.Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many live audits, try again later"})
			return
		}
		result, err = s.auditor.AuditURL(ctx, req.URL)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "One of slug, url or html is required"})
		return
	}
	if err != nil {
		s.respondAuditError(c, err)
		return
	}

	// history is best effort
	_ = s.auditor.Record(ctx, result)

	if c.Query("format") == "text" {
		c.String(http.StatusOK, seo.GenerateReport(result))
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) respondAuditError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, seo.ErrEmptyDocument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrLiveAuditDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		s.logger.Error("audit failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Audit failed: " + err.Error()})
	}
}

// ListAudits returns the stored audit history of a page path.
func (s *Server) ListAudits(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}
	limit := s.historyLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, s.historyLimit)
	}

	runs, err := s.auditor.History(c.Request.Context(), path, limit)
	if err != nil {
		s.logger.Error("failed to read audit history", zap.String("path", path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not read audit history"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func validPageURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func keepArticles(articles []models.Article, keep func(models.Article) bool) []models.Article {
	out := []models.Article{}
	for _, a := range articles {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}
