package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"portfolio/pkg/models"
)

// ErrStoreUnavailable is returned when a configured backend cannot be reached.
var ErrStoreUnavailable = errors.New("audit store unavailable")

// AuditRun is one stored audit of a page.
type AuditRun struct {
	ID        string                 `json:"id"`
	Path      string                 `json:"path"`
	Score     int                    `json:"score"`
	Grade     string                 `json:"grade"`
	Result    *models.SEOAuditResult `json:"result"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewAuditRun wraps result for storage, keyed by the path of its URL.
func NewAuditRun(result *models.SEOAuditResult) AuditRun {
	return AuditRun{
		ID:        result.ID,
		Path:      PathKey(result.URL),
		Score:     result.Score,
		Grade:     result.Grade,
		Result:    result,
		CreatedAt: result.AuditedAt,
	}
}

// PathKey normalizes a page URL or path to the key audits are grouped by.
func PathKey(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	p = "/" + strings.Trim(p, "/")
	return p
}

// AuditStore keeps the audit history of each page.
type AuditStore interface {
	Save(ctx context.Context, run AuditRun) error
	// Recent returns at most limit runs for path, newest first.
	Recent(ctx context.Context, path string, limit int) ([]AuditRun, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	HistoryLimit  int
	Logger        *zap.Logger
}

// Open returns the first configured backend: Postgres, then Redis, then an
// in-memory store.
func Open(ctx context.Context, opts Options) (AuditStore, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	switch {
	case opts.PostgresURL != "":
		store, err := NewPostgresStore(ctx, opts.PostgresURL)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("migrate audit store: %w", err)
		}
		log.Info("using postgres audit store")
		return store, nil

	case opts.RedisAddr != "":
		store := NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.HistoryLimit)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("%w: redis: %v", ErrStoreUnavailable, err)
		}
		log.Info("using redis audit store", zap.String("addr", opts.RedisAddr))
		return store, nil
	}

	log.Info("using in-memory audit store")
	return NewMemoryStore(opts.HistoryLimit), nil
}
