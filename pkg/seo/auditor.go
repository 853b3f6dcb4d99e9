package seo

import (
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"

	"portfolio/pkg/logger"
	"portfolio/pkg/metrics"
	"portfolio/pkg/models"
)

// Auditor scores a page snapshot against on-page SEO rules. It holds no
// per-run state, so one Auditor can serve concurrent callers.
type Auditor struct {
	rules   Rules
	schema  *jsonschema.Schema
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option customizes an Auditor.
type Option func(*Auditor)

// WithLogger sets the logger used for check failures.
func WithLogger(l *zap.Logger) Option {
	return func(a *Auditor) { a.logger = logger.OrNop(l) }
}

// WithMetrics records each audit result on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Auditor) { a.metrics = m }
}

// WithClock overrides the time source stamped on results.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) { a.now = now }
}

// NewAuditor builds an Auditor for rules.
func NewAuditor(rules Rules, opts ...Option) *Auditor {
	a := &Auditor{
		rules:  rules,
		schema: jsonLDSchema(),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rules returns the rule set the auditor was built with.
func (a *Auditor) Rules() Rules { return a.rules }

type check struct {
	name string
	fn   func(*audit)
}

var checks = []check{
	{"title", (*audit).checkTitle},
	{"meta-description", (*audit).checkMetaDescription},
	{"images", (*audit).checkImages},
	{"headings", (*audit).checkHeadings},
	{"links", (*audit).checkLinks},
	{"social", (*audit).checkSocialTags},
	{"structured-data", (*audit).checkStructuredData},
	{"technical", (*audit).checkTechnical},
	{"mobile", (*audit).checkMobile},
	{"performance", (*audit).checkPerformance},
	{"content-quality", (*audit).checkContentQuality},
	{"internal-linking", (*audit).checkInternalLinking},
	{"topical-relevance", (*audit).checkTopicalRelevance},
}

// audit accumulates the findings of a single run.
type audit struct {
	snap    *Snapshot
	rules   *Rules
	schema  *jsonschema.Schema
	issues  []models.SEOIssue
	recs    []models.SEORecommendation
	metrics models.SEOMetrics
}

// Audit runs every check against snap and returns a scored result. A check
// that panics is logged and skipped; the others still run.
func (a *Auditor) Audit(snap *Snapshot) *models.SEOAuditResult {
	if snap == nil {
		snap = &Snapshot{}
	}
	run := &audit{
		snap:   snap,
		rules:  &a.rules,
		schema: a.schema,
		issues: []models.SEOIssue{},
		recs:   []models.SEORecommendation{},
	}
	run.metrics.ContentAnalysis.TopicClusters = []string{}
	run.metrics.ContentAnalysis.SemanticKeywords = []string{}

	for _, c := range checks {
		a.runCheck(run, c)
	}

	score := Score(run.issues, run.metrics)
	result := &models.SEOAuditResult{
		ID:              uuid.NewString(),
		Score:           score,
		Grade:           Grade(score),
		Issues:          run.issues,
		Recommendations: run.recs,
		Metrics:         run.metrics,
		AuditedAt:       a.now().UTC(),
	}
	if snap.URL != nil {
		result.URL = snap.URL.String()
	}

	a.observe(result)
	a.logger.Debug("seo audit complete",
		zap.String("url", result.URL),
		zap.Int("score", result.Score),
		zap.String("grade", result.Grade),
		zap.Int("issues", len(result.Issues)),
	)
	return result
}

func (a *Auditor) runCheck(run *audit, c check) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("seo check failed", zap.String("check", c.name), zap.Any("panic", rec))
		}
	}()
	c.fn(run)
}

func (a *Auditor) observe(result *models.SEOAuditResult) {
	if a.metrics == nil {
		return
	}
	a.metrics.AuditsTotal.WithLabelValues(result.Grade).Inc()
	a.metrics.AuditScore.Observe(float64(result.Score))
	for _, issue := range result.Issues {
		a.metrics.IssuesTotal.WithLabelValues(string(issue.Type)).Inc()
	}
}

var defaultAuditor = NewAuditor(DefaultRules())

// RunSEOAudit audits snap with the default rules.
func RunSEOAudit(snap *Snapshot) *models.SEOAuditResult {
	return defaultAuditor.Audit(snap)
}

func (r *audit) issue(t models.IssueType, category, description, element, recommendation string) {
	r.issues = append(r.issues, models.SEOIssue{
		Type:           t,
		Category:       category,
		Description:    description,
		Element:        element,
		Recommendation: recommendation,
	})
}

func (r *audit) recommend(p models.Priority, category, title, description, implementation string) {
	r.recs = append(r.recs, models.SEORecommendation{
		Priority:       p,
		Category:       category,
		Title:          title,
		Description:    description,
		Implementation: implementation,
	})
}
