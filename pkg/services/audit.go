package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"portfolio/pkg/config"
	"portfolio/pkg/logger"
	"portfolio/pkg/models"
	"portfolio/pkg/seo"
	"portfolio/pkg/storage"
)

// ErrLiveAuditDisabled is returned by AuditURL when no capturer is configured.
var ErrLiveAuditDisabled = errors.New("live audits are disabled")

const relatedArticleLimit = 3

// Capturer produces a snapshot of a live page.
type Capturer interface {
	Capture(ctx context.Context, url string) (*seo.Snapshot, error)
}

// PageAuditorConfig wires a PageAuditor. Capturer and Store are optional.
type PageAuditorConfig struct {
	Library  *Library
	Renderer *Renderer
	Auditor  *seo.Auditor
	Capturer Capturer
	Store    storage.AuditStore
	Logger   *zap.Logger
}

// PageAuditor renders and audits the blog's own pages and arbitrary URLs,
// and keeps their audit history.
type PageAuditor struct {
	library  *Library
	renderer *Renderer
	auditor  *seo.Auditor
	capturer Capturer
	store    storage.AuditStore
	logger   *zap.Logger
}

func NewPageAuditor(cfg PageAuditorConfig) *PageAuditor {
	auditor := cfg.Auditor
	if auditor == nil {
		auditor = seo.NewAuditor(seo.DefaultRules(), seo.WithLogger(cfg.Logger))
	}
	return &PageAuditor{
		library:  cfg.Library,
		renderer: cfg.Renderer,
		auditor:  auditor,
		capturer: cfg.Capturer,
		store:    cfg.Store,
		logger:   logger.OrNop(cfg.Logger),
	}
}

// RenderArticle renders the page of the article published under slug and
// returns it along with its public URL.
func (p *PageAuditor) RenderArticle(ctx context.Context, slug string) ([]byte, string, error) {
	article, ok := p.library.ArticleBySlug(ctx, slug)
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", slug, ErrArticleNotFound)
	}
	pageURL := config.ArticleURL(slug)
	related := p.library.RelatedArticles(ctx, slug, relatedArticleLimit)
	page, err := p.renderer.RenderPage(*article, related, SiteInfo{Name: config.SiteName, URL: pageURL})
	if err != nil {
		return nil, "", err
	}
	return page, pageURL, nil
}

// AuditSlug audits the rendered page of an article.
func (p *PageAuditor) AuditSlug(ctx context.Context, slug string) (*models.SEOAuditResult, error) {
	page, pageURL, err := p.RenderArticle(ctx, slug)
	if err != nil {
		return nil, err
	}
	return p.AuditHTML(pageURL, bytes.NewReader(page))
}

// AuditHTML audits a document served at pageURL.
func (p *PageAuditor) AuditHTML(pageURL string, r io.Reader) (*models.SEOAuditResult, error) {
	snap, err := seo.ParseHTML(pageURL, r)
	if err != nil {
		return nil, err
	}
	return p.auditor.Audit(snap), nil
}

// AuditURL loads pageURL in a browser and audits what it rendered.
func (p *PageAuditor) AuditURL(ctx context.Context, pageURL string) (*models.SEOAuditResult, error) {
	if p.capturer == nil {
		return nil, ErrLiveAuditDisabled
	}
	snap, err := p.capturer.Capture(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return p.auditor.Audit(snap), nil
}

// Record stores result in the audit history. It is a no-op without a store.
func (p *PageAuditor) Record(ctx context.Context, result *models.SEOAuditResult) error {
	if p.store == nil {
		return nil
	}
	run := storage.NewAuditRun(result)
	if err := p.store.Save(ctx, run); err != nil {
		p.logger.Error("failed to save audit", zap.String("path", run.Path), zap.Error(err))
		return err
	}
	return nil
}

// History returns the most recent audits of path, newest first.
func (p *PageAuditor) History(ctx context.Context, path string, limit int) ([]storage.AuditRun, error) {
	if p.store == nil {
		return []storage.AuditRun{}, nil
	}
	return p.store.Recent(ctx, path, limit)
}
