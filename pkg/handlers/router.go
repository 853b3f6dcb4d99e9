package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers every route of s. gatherer backs /metrics; nil means
// the default registry.
func NewRouter(s *Server, gatherer prometheus.Gatherer) *gin.Engine {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.logger))
	r.Use(RequestMetrics(s.metrics))

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/blog/:slug", s.ArticlePage)

	api := r.Group("/api")
	{
		api.GET("/articles", s.ListArticles)
		api.GET("/articles/:slug", s.GetArticle)
		api.GET("/categories", s.ListCategories)
		api.GET("/tags", s.ListTags)
		api.POST("/audit", s.RunAudit)
		api.GET("/audits", s.ListAudits)
	}

	return r
}
