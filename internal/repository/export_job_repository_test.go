package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

func TestExportJobRepositoryMemoryFallback(t *testing.T) {
	repo := NewExportJobRepository(nil, time.Hour, nil)
	ctx := context.Background()

	job := &models.ExportJob{ID: "job-1", Kind: models.ExportKindWorkbook, Status: models.ExportStatusQueued, CreatedAt: time.Now()}
	require.NoError(t, repo.Save(ctx, job))

	found, err := repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, found.Status)

	found.Status = models.ExportStatusFinished
	_, err = repo.FindByID(ctx, "job-1")
	require.NoError(t, err)
	stored, _ := repo.FindByID(ctx, "job-1")
	assert.Equal(t, models.ExportStatusQueued, stored.Status)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestExportJobRepositoryMemoryExpiry(t *testing.T) {
	repo := NewExportJobRepository(nil, time.Minute, nil)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &models.ExportJob{ID: "job-1"}))

	repo.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err := repo.FindByID(ctx, "job-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, 1, repo.PurgeExpired())
}

func TestExportJobRepositoryRequiresID(t *testing.T) {
	repo := NewExportJobRepository(nil, time.Minute, nil)
	assert.Error(t, repo.Save(context.Background(), &models.ExportJob{}))
}
