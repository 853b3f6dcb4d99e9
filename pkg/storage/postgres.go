package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps audit history in the seo_audits table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: postgres: %v", ErrStoreUnavailable, err)
	}
	return &PostgresStore{db: db}, nil
}

// Migrate creates the audit table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS seo_audits (
			id         UUID PRIMARY KEY,
			path       TEXT NOT NULL,
			score      INTEGER NOT NULL,
			grade      TEXT NOT NULL,
			result     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS seo_audits_path_created_idx ON seo_audits (path, created_at DESC);
	`)
	return err
}

func (s *PostgresStore) Save(ctx context.Context, run AuditRun) error {
	result, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("encode audit result: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO seo_audits (id, path, score, grade, result, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING`,
		run.ID, run.Path, run.Score, run.Grade, result, run.CreatedAt,
	)
	return err
}

func (s *PostgresStore) Recent(ctx context.Context, path string, limit int) ([]AuditRun, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.Query(ctx,
		`SELECT id::text, path, score, grade, result, created_at
		 FROM seo_audits WHERE path = $1
		 ORDER BY created_at DESC LIMIT $2`,
		PathKey(path), limit,
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (AuditRun, error) {
		var (
			run AuditRun
			raw []byte
		)
		if err := row.Scan(&run.ID, &run.Path, &run.Score, &run.Grade, &raw, &run.CreatedAt); err != nil {
			return run, err
		}
		if err := json.Unmarshal(raw, &run.Result); err != nil {
			return run, fmt.Errorf("decode audit %s: %w", run.ID, err)
		}
		return run, nil
	})
}

func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
