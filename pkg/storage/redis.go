package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps a capped list of audits per page.
type RedisStore struct {
	client *redis.Client
	limit  int
}

func NewRedisStore(addr, password string, db, limit int) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if limit < 1 {
		limit = 20
	}
	return &RedisStore{client: rdb, limit: limit}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func auditKey(path string) string {
	return fmt.Sprintf("seo:audits:%s", PathKey(path))
}

func (s *RedisStore) Save(ctx context.Context, run AuditRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode audit run: %w", err)
	}
	key := auditKey(run.Path)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, int64(s.limit-1))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Recent(ctx context.Context, path string, limit int) ([]AuditRun, error) {
	if limit < 1 || limit > s.limit {
		limit = s.limit
	}
	items, err := s.client.LRange(ctx, auditKey(path), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	runs := make([]AuditRun, 0, len(items))
	for _, item := range items {
		var run AuditRun
		if err := json.Unmarshal([]byte(item), &run); err != nil {
			return nil, fmt.Errorf("decode audit run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
