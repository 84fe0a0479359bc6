package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/jobs"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/middleware/requestid"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/storage"
)

type exportJobStore interface {
	Save(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	PurgeExpired() int
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportFileStore interface {
	Save(relPath string, data []byte) (string, error)
	Read(relPath string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Verify(token string) (*storage.DownloadToken, error)
	TTL() time.Duration
}

type workbookRenderer interface {
	Workbook(ctx context.Context) ([]byte, error)
}

// ExportJobConfig configures download links and cleanup.
type ExportJobConfig struct {
	// DownloadPath is the route that serves ?token= downloads, including the API prefix.
	DownloadPath    string
	CleanupInterval time.Duration
}

// ExportDownload is a resolved export file.
type ExportDownload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// XLSXContentType is the MIME type of generated workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportJobService queues background workbook exports and serves their downloads.
type ExportJobService struct {
	store   exportJobStore
	queue   jobDispatcher
	files   exportFileStore
	signer  downloadSigner
	metrics *MetricsService
	cfg     ExportJobConfig
	logger  *zap.Logger
}

// NewExportJobService constructs an ExportJobService.
func NewExportJobService(store exportJobStore, queue jobDispatcher, files exportFileStore, signer downloadSigner, metrics *MetricsService, cfg ExportJobConfig, logger *zap.Logger) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/exports/download"
	}
	return &ExportJobService{store: store, queue: queue, files: files, signer: signer, metrics: metrics, cfg: cfg, logger: logger}
}

// Create stores a queued job and hands it to the worker pool.
func (s *ExportJobService) Create(ctx context.Context, req dto.ExportJobRequest) (*dto.ExportJobResponse, error) {
	kind := req.Kind
	if kind == "" {
		kind = models.ExportKindWorkbook
	}
	if kind != models.ExportKindWorkbook {
		return nil, appErrors.Validation("kind", fmt.Sprintf("unsupported export kind %q", kind))
	}
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Save(ctx, job); err != nil {
		return nil, internalError(err, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Kind)}); err != nil {
		now := time.Now().UTC()
		job.Status = models.ExportStatusFailed
		job.ErrorMessage = err.Error()
		job.FinishedAt = &now
		if saveErr := s.store.Save(ctx, job); saveErr != nil {
			s.logger.Sugar().Warnw("failed to mark export job failed", "job_id", job.ID, "error", saveErr)
		}
		s.metrics.RecordExportJob(string(models.ExportStatusFailed))
		return nil, internalError(err, "failed to enqueue export job")
	}
	s.logger.Sugar().Infow("export job queued", "job_id", job.ID, "kind", job.Kind, "request_id", requestid.FromContext(ctx))
	return dto.NewExportJobResponse(job), nil
}

// Status returns the current state of a job.
func (s *ExportJobService) Status(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	job, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "export job", "load export job")
	}
	return dto.NewExportJobResponse(job), nil
}

// ResolveDownload verifies a download token and loads the file it points to.
func (s *ExportJobService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	if token == "" {
		return nil, appErrors.Validation("token", "is required")
	}
	claims, err := s.signer.Verify(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.store.FindByID(ctx, claims.JobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, internalError(err, "failed to load export job")
	}
	if job.Status != models.ExportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export not ready")
	}
	if job.FilePath != claims.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	data, err := s.files.Read(claims.Path)
	if err != nil {
		return nil, internalError(err, "failed to read export file")
	}
	return &ExportDownload{Filename: path.Base(claims.Path), ContentType: XLSXContentType, Data: data}, nil
}

// StartCleanup boots a goroutine that removes expired export files and job records.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Cleanup removes files older than the download TTL and drops expired in-memory job records.
func (s *ExportJobService) Cleanup() {
	removed, err := s.files.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		s.logger.Sugar().Warnw("export cleanup failed", "error", err)
	}
	purged := s.store.PurgeExpired()
	if len(removed) > 0 || purged > 0 {
		s.logger.Sugar().Infow("export cleanup", "files_removed", len(removed), "jobs_purged", purged)
	}
}

// ExportWorker renders queued workbook exports.
type ExportWorker struct {
	store    exportJobStore
	renderer workbookRenderer
	files    exportFileStore
	signer   downloadSigner
	metrics  *MetricsService
	cfg      ExportJobConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportWorker constructs a worker. Its Handle and MarkFailed methods plug into a jobs.Queue.
func NewExportWorker(store exportJobStore, renderer workbookRenderer, files exportFileStore, signer downloadSigner, metrics *MetricsService, cfg ExportJobConfig, logger *zap.Logger) *ExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/exports/download"
	}
	return &ExportWorker{store: store, renderer: renderer, files: files, signer: signer, metrics: metrics, cfg: cfg, logger: logger, now: time.Now}
}

// Handle processes one queue job. Errors are retried by the queue.
func (w *ExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.store.FindByID(ctx, job.ID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", job.ID, err)
	}
	if record.Status == models.ExportStatusFinished {
		return nil
	}
	record.Status = models.ExportStatusProcessing
	if err := w.store.Save(ctx, record); err != nil {
		return err
	}

	data, err := w.renderer.Workbook(ctx)
	if err != nil {
		return err
	}
	relPath := path.Join("workbooks", w.now().UTC().Format("20060102"), record.ID+".xlsx")
	if _, err := w.files.Save(relPath, data); err != nil {
		return err
	}
	token, expiresAt, err := w.signer.Generate(record.ID, relPath)
	if err != nil {
		return err
	}

	finished := w.now().UTC()
	record.Status = models.ExportStatusFinished
	record.FilePath = relPath
	record.DownloadURL = w.cfg.DownloadPath + "?token=" + url.QueryEscape(token)
	record.ExpiresAt = &expiresAt
	record.ErrorMessage = ""
	record.FinishedAt = &finished
	if err := w.store.Save(ctx, record); err != nil {
		return err
	}
	w.metrics.RecordExportJob(string(models.ExportStatusFinished))
	w.logger.Sugar().Infow("export job finished", "job_id", record.ID, "path", relPath, "bytes", len(data))
	return nil
}

// MarkFailed records a job that exhausted its retries.
func (w *ExportWorker) MarkFailed(ctx context.Context, job jobs.Job, cause error) {
	record, err := w.store.FindByID(ctx, job.ID)
	if err != nil {
		w.logger.Sugar().Warnw("failed to load exhausted export job", "job_id", job.ID, "error", err)
		return
	}
	finished := w.now().UTC()
	record.Status = models.ExportStatusFailed
	record.ErrorMessage = cause.Error()
	record.FinishedAt = &finished
	if err := w.store.Save(ctx, record); err != nil {
		w.logger.Sugar().Warnw("failed to mark export job failed", "job_id", job.ID, "error", err)
	}
	w.metrics.RecordExportJob(string(models.ExportStatusFailed))
}
