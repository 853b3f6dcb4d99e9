package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"portfolio/pkg/config"
	"portfolio/pkg/handlers"
	"portfolio/pkg/logger"
	"portfolio/pkg/metrics"
	"portfolio/pkg/models"
	"portfolio/pkg/seo"
	"portfolio/pkg/services"
	"portfolio/pkg/storage"
)

type cli struct {
	Serve      serveCmd      `cmd:"" help:"Serve the article API, article pages and SEO audits."`
	Articles   articlesCmd   `cmd:"" help:"Print articles as JSON."`
	Categories categoriesCmd `cmd:"" help:"Print all categories."`
	Tags       tagsCmd       `cmd:"" help:"Print all tags."`
	Audit      auditCmd      `cmd:"" help:"Run an SEO audit on an article, a URL or an HTML file."`
}

// app holds the dependencies shared by every command.
type app struct {
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	library  *services.Library
}

func newApp() (*app, error) {
	log, err := logger.New(config.LogLevel, config.LogFormat)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	library := services.NewLibrary(services.NewSourceFS(config.ContentPath), services.LibraryConfig{
		ManifestFile: config.ManifestFile,
		Concurrency:  config.LoadConcurrency,
		Logger:       log,
		Metrics:      m,
	})
	return &app{logger: log, registry: registry, metrics: m, library: library}, nil
}

// pageAuditor builds the audit pipeline. withStore opens the configured
// history backend; the caller closes it.
func (a *app) pageAuditor(ctx context.Context, withStore bool) (*services.PageAuditor, storage.AuditStore, error) {
	rules, err := seo.LoadRules(config.AuditRulesPath)
	if err != nil {
		return nil, nil, err
	}
	if rules.SiteHost == "" {
		rules.SiteHost = config.SiteHost()
	}
	if rules.AuthorName == "" {
		rules.AuthorName = config.SiteAuthor
	}
	renderer, err := services.NewRenderer()
	if err != nil {
		return nil, nil, err
	}

	var store storage.AuditStore
	if withStore {
		store, err = storage.Open(ctx, storage.Options{
			PostgresURL:   config.PostgresURL,
			RedisAddr:     config.RedisAddr,
			RedisPassword: config.RedisPassword,
			RedisDB:       config.RedisDB,
			HistoryLimit:  config.AuditHistoryLimit,
			Logger:        a.logger,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	pa := services.NewPageAuditor(services.PageAuditorConfig{
		Library:  a.library,
		Renderer: renderer,
		Auditor:  seo.NewAuditor(rules, seo.WithLogger(a.logger), seo.WithMetrics(a.metrics)),
		Capturer: seo.NewLiveCapturer(config.PageLoadTimeout, a.logger),
		Store:    store,
		Logger:   a.logger,
	})
	return pa, store, nil
}

type serveCmd struct {
	Port string `help:"Port to listen on." env:"SERVER_PORT"`
}

func (cmd *serveCmd) Run(a *app) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pa, store, err := a.pageAuditor(ctx, true)
	if err != nil {
		return err
	}
	defer store.Close()

	gin.SetMode(gin.ReleaseMode)
	server := handlers.NewServer(handlers.Config{
		Library:         a.library,
		Auditor:         pa,
		AuditsPerMinute: config.AuditRatePerMin,
		HistoryLimit:    config.AuditHistoryLimit,
		Metrics:         a.metrics,
		Logger:          a.logger,
	})

	port := cmd.Port
	if port == "" {
		port = config.ServerPort
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handlers.NewRouter(server, a.registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type articlesCmd struct {
	Category string `help:"Only articles in this category."`
	Tag      string `help:"Only articles with this tag."`
	Featured bool   `help:"Only featured articles."`
	Slug     string `help:"Print the single article published under this slug."`
}

func (cmd *articlesCmd) Run(a *app, out io.Writer) error {
	ctx := context.Background()
	if cmd.Slug != "" {
		article, ok := a.library.ArticleBySlug(ctx, cmd.Slug)
		if !ok {
			return fmt.Errorf("%s: %w", cmd.Slug, services.ErrArticleNotFound)
		}
		return printJSON(out, article)
	}

	var articles []models.Article
	switch {
	case cmd.Category != "":
		articles = a.library.ArticlesByCategory(ctx, cmd.Category)
	case cmd.Tag != "":
		articles = a.library.ArticlesByTag(ctx, cmd.Tag)
	case cmd.Featured:
		articles = a.library.FeaturedArticles(ctx)
	default:
		articles = a.library.LoadArticles(ctx)
	}
	return printJSON(out, articles)
}

type categoriesCmd struct{}

func (cmd *categoriesCmd) Run(a *app, out io.Writer) error {
	return printJSON(out, a.library.AllCategories(context.Background()))
}

type tagsCmd struct{}

func (cmd *tagsCmd) Run(a *app, out io.Writer) error {
	return printJSON(out, a.library.AllTags(context.Background()))
}

type auditCmd struct {
	Slug string `help:"Audit the rendered page of this article." xor:"source" required:""`
	URL  string `name:"url" help:"Audit a live page in headless Chrome." xor:"source" required:""`
	File string `help:"Audit an HTML file." xor:"source" required:"" type:"existingfile"`
	Base string `help:"URL the HTML file is served at." default:""`
	JSON bool   `name:"json" help:"Print the result as JSON instead of a text report."`
	Save bool   `help:"Store the result in the audit history."`
}

func (cmd *auditCmd) Run(a *app, out io.Writer) error {
	ctx := context.Background()
	pa, store, err := a.pageAuditor(ctx, cmd.Save)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var result *models.SEOAuditResult
	switch {
	case cmd.Slug != "":
		result, err = pa.AuditSlug(ctx, cmd.Slug)
	case cmd.URL != "":
		result, err = pa.AuditURL(ctx, cmd.URL)
	default:
		var f *os.File
		if f, err = os.Open(cmd.File); err != nil {
			return err
		}
		defer f.Close()
		result, err = pa.AuditHTML(cmd.Base, f)
	}
	if err != nil {
		return err
	}

	if cmd.Save {
		if err := pa.Record(ctx, result); err != nil {
			return err
		}
	}
	if cmd.JSON {
		return printJSON(out, result)
	}
	_, err = fmt.Fprint(out, seo.GenerateReport(result))
	return err
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	config.Init()

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("portfolio"),
		kong.Description("Blog content and SEO audit tool."),
		kong.UsageOnError(),
	)

	a, err := newApp()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer a.logger.Sync()

	kctx.BindTo(os.Stdout, (*io.Writer)(nil))
	err = kctx.Run(a)
	kctx.FatalIfErrorf(err)
}
