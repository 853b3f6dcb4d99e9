package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors used across the loader, auditor and API.
type Metrics struct {
	ArticlesLoaded      prometheus.Counter
	LoadFallbacks       prometheus.Counter
	AuditsTotal         *prometheus.CounterVec
	AuditScore          prometheus.Histogram
	IssuesTotal         *prometheus.CounterVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers every collector on reg. A nil reg falls back to the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		ArticlesLoaded: f.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_articles_loaded_total",
			Help: "Total number of articles parsed by the loader.",
		}),
		LoadFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "portfolio_article_load_fallbacks_total",
			Help: "Number of loads that fell back to the sample article.",
		}),
		AuditsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_seo_audits_total",
			Help: "Total number of SEO audits by grade.",
		}, []string{"grade"}),
		AuditScore: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "portfolio_seo_audit_score",
			Help:    "Distribution of SEO audit scores.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		IssuesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_seo_issues_total",
			Help: "Total number of SEO issues reported by type.",
		}, []string{"type"}),
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
}
