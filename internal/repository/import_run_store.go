package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codepet/classroom-sync-api/internal/models"
)

const (
	runKeyPrefix    = "import:run:"
	dedupeKeyPrefix = "import:dedupe:"
)

// ImportRunStore keeps import run state in Redis. Runs are operational
// breadcrumbs with a bounded retention, not durable records, so Redis with a
// TTL fits better than a table.
type ImportRunStore struct {
	client    *redis.Client
	retention time.Duration
	dedupeTTL time.Duration
}

// NewImportRunStore constructs an ImportRunStore.
func NewImportRunStore(client *redis.Client, retention, dedupeTTL time.Duration) *ImportRunStore {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if dedupeTTL <= 0 {
		dedupeTTL = time.Hour
	}
	return &ImportRunStore{client: client, retention: retention, dedupeTTL: dedupeTTL}
}

// Save writes the run, refreshing its retention window.
func (s *ImportRunStore) Save(ctx context.Context, run *models.ImportRun) error {
	raw, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode import run %s: %w", run.ID, err)
	}
	if err := s.client.Set(ctx, runKeyPrefix+run.ID, raw, s.retention).Err(); err != nil {
		return fmt.Errorf("save import run %s: %w", run.ID, err)
	}
	return nil
}

// Get loads one run by ID. Returns nil when unknown or expired.
func (s *ImportRunStore) Get(ctx context.Context, id string) (*models.ImportRun, error) {
	raw, err := s.client.Get(ctx, runKeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("load import run %s: %w", id, err)
	}
	var run models.ImportRun
	if err := json.Unmarshal(raw, &run); err != nil {
		return nil, fmt.Errorf("decode import run %s: %w", id, err)
	}
	return &run, nil
}

// ClaimSnapshot marks a snapshot hash as seen for a teacher. Returns false
// when an identical snapshot was already imported inside the dedupe window.
func (s *ImportRunStore) ClaimSnapshot(ctx context.Context, teacherID, hash string) (bool, error) {
	key := dedupeKeyPrefix + teacherID + ":" + hash
	ok, err := s.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), s.dedupeTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim snapshot hash: %w", err)
	}
	return ok, nil
}

// ReleaseSnapshot drops the dedupe claim so a failed import can be retried
// with the same payload.
func (s *ImportRunStore) ReleaseSnapshot(ctx context.Context, teacherID, hash string) error {
	key := dedupeKeyPrefix + teacherID + ":" + hash
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("release snapshot hash: %w", err)
	}
	return nil
}
