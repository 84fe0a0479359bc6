package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

const exportJobKeyPrefix = "exports:job:"

// ExportJobRepository keeps export job state in Redis with a TTL, or in process memory
// when no Redis client is configured.
type ExportJobRepository struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger

	mu     sync.RWMutex
	memory map[string]memoryJob
	now    func() time.Time
}

type memoryJob struct {
	job       models.ExportJob
	expiresAt time.Time
}

// NewExportJobRepository constructs the store. A nil client selects the in-memory fallback.
func NewExportJobRepository(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ExportJobRepository {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportJobRepository{
		client: client,
		ttl:    ttl,
		logger: logger,
		memory: make(map[string]memoryJob),
		now:    time.Now,
	}
}

func exportJobKey(id string) string {
	return exportJobKeyPrefix + id
}

// Save stores or replaces the job state and resets its TTL.
func (r *ExportJobRepository) Save(ctx context.Context, job *models.ExportJob) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("export job id required")
	}
	if r.client == nil {
		r.mu.Lock()
		r.memory[job.ID] = memoryJob{job: *job, expiresAt: r.now().Add(r.ttl)}
		r.mu.Unlock()
		return nil
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal export job %s: %w", job.ID, err)
	}
	if err := r.client.Set(ctx, exportJobKey(job.ID), payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set export job %s: %w", job.ID, err)
	}
	return nil
}

// FindByID loads a job. Unknown or expired jobs surface as sql.ErrNoRows.
func (r *ExportJobRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	if r.client == nil {
		r.mu.RLock()
		entry, ok := r.memory[id]
		r.mu.RUnlock()
		if !ok || r.now().After(entry.expiresAt) {
			return nil, sql.ErrNoRows
		}
		job := entry.job
		return &job, nil
	}

	raw, err := r.client.Get(ctx, exportJobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("redis get export job %s: %w", id, err)
	}
	var job models.ExportJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, fmt.Errorf("unmarshal export job %s: %w", id, err)
	}
	return &job, nil
}

// PurgeExpired drops expired in-memory entries. Redis expires keys on its own.
func (r *ExportJobRepository) PurgeExpired() int {
	if r.client != nil {
		return 0
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, entry := range r.memory {
		if now.After(entry.expiresAt) {
			delete(r.memory, id)
			removed++
		}
	}
	if removed > 0 {
		r.logger.Debug("purged expired export jobs", zap.Int("count", removed))
	}
	return removed
}
