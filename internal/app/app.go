// Package app wires repositories, services and background workers from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/handler"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/repository"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/service"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/cache"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/config"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/database"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/jobs"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/storage"
)

// Services holds the business layer built on top of the repositories.
type Services struct {
	Metrics      *service.MetricsService
	Clients      *service.ClientService
	WorkItems    *service.WorkItemService
	Lifecycle    *service.WorkLifecycleService
	Revisions    *service.RevisionService
	Deliverables *service.DeliverableService
	SocialPosts  *service.SocialPostService
	CallLogs     *service.CallLogService
	Statistics   *service.StatisticsService
	Reports      *service.ClientReportService
	Imports      *service.ImportService
	Exports      *service.ExportService
	ExportJobs   *service.ExportJobService
}

// App owns the process-wide connections and the wired services.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	DB       *sqlx.DB
	Redis    *redis.Client
	Services Services

	exportQueue *jobs.Queue
	stopFuncs   []func()
}

// New connects to Postgres (and Redis when enabled) and builds every service.
// Background workers are not running until Start is called.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if cfg.Database.MigrateOnStart {
		if err := database.MigrateUp(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	rc, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	if rc == nil {
		logger.Info("redis disabled, export jobs kept in memory")
	}

	a := &App{Config: cfg, Logger: logger, DB: db, Redis: rc}
	if err := a.wire(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	cfg := a.Config
	logger := a.Logger

	clientRepo := repository.NewClientRepository(a.DB)
	workItemRepo := repository.NewWorkItemRepository(a.DB)
	revisionRepo := repository.NewRevisionRepository(a.DB)
	deliverableRepo := repository.NewDeliverableRepository(a.DB)
	socialPostRepo := repository.NewSocialPostRepository(a.DB)
	callLogRepo := repository.NewCallLogRepository(a.DB)
	statsRepo := repository.NewStatisticsRepository(a.DB)
	exportJobRepo := repository.NewExportJobRepository(a.Redis, cfg.Exports.JobTTL, logger)
	tx := repository.NewTransactor(a.DB)

	validate := validator.New()
	metrics := service.NewMetricsService()
	codes := service.NewCodeGenerator(clientRepo, workItemRepo, deliverableRepo, cfg.Codes.MaxAttempts)

	files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return fmt.Errorf("init export storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	exports := service.NewExportService(service.ExportSources{
		Clients:      clientRepo,
		WorkItems:    workItemRepo,
		Deliverables: deliverableRepo,
		SocialPosts:  socialPostRepo,
		Revisions:    revisionRepo,
		CallLogs:     callLogRepo,
	}, metrics, logger)

	jobCfg := service.ExportJobConfig{
		DownloadPath:    cfg.APIPrefix + "/exports/download",
		CleanupInterval: cfg.Exports.CleanupInterval,
	}
	worker := service.NewExportWorker(exportJobRepo, exports, files, signer, metrics, jobCfg, logger)
	a.exportQueue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:     cfg.Exports.WorkerConcurrency,
		MaxRetries:  cfg.Exports.WorkerRetries,
		OnExhausted: worker.MarkFailed,
		Logger:      logger,
	})

	a.Services = Services{
		Metrics:      metrics,
		Clients:      service.NewClientService(clientRepo, deliverableRepo, codes, validate, logger),
		WorkItems:    service.NewWorkItemService(workItemRepo, clientRepo, revisionRepo, deliverableRepo, codes, validate, logger),
		Lifecycle:    service.NewWorkLifecycleService(tx, workItemRepo, revisionRepo, deliverableRepo, clientRepo, codes, validate, logger),
		Revisions:    service.NewRevisionService(revisionRepo),
		Deliverables: service.NewDeliverableService(deliverableRepo, clientRepo, workItemRepo, codes, validate, logger),
		SocialPosts:  service.NewSocialPostService(socialPostRepo, clientRepo, workItemRepo, validate, logger),
		CallLogs:     service.NewCallLogService(callLogRepo, clientRepo, validate, logger),
		Statistics:   service.NewStatisticsService(statsRepo, clientRepo, metrics, cfg.Statistics, logger),
		Reports:      service.NewClientReportService(clientRepo, workItemRepo, deliverableRepo, revisionRepo, socialPostRepo, logger),
		Imports:      service.NewImportService(tx, clientRepo, codes, metrics, logger),
		Exports:      exports,
		ExportJobs:   service.NewExportJobService(exportJobRepo, a.exportQueue, files, signer, metrics, jobCfg, logger),
	}
	return nil
}

// Start launches the export worker pool and the export cleanup ticker.
func (a *App) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	a.exportQueue.Start(ctx)
	a.Services.ExportJobs.StartCleanup(ctx)
	a.stopFuncs = append(a.stopFuncs, cancel, a.exportQueue.Stop)
}

// Handlers builds the HTTP layer over the wired services.
func (a *App) Handlers() handler.Handlers {
	s := a.Services
	return handler.Handlers{
		Clients:      handler.NewClientHandler(s.Clients, s.Statistics, s.Reports, s.Imports, a.Config.Import.MaxFileSizeBytes),
		WorkItems:    handler.NewWorkItemHandler(s.WorkItems, s.Lifecycle),
		Revisions:    handler.NewRevisionHandler(s.Revisions),
		Deliverables: handler.NewDeliverableHandler(s.Deliverables),
		SocialPosts:  handler.NewSocialPostHandler(s.SocialPosts),
		CallLogs:     handler.NewCallLogHandler(s.CallLogs),
		Statistics:   handler.NewStatisticsHandler(s.Statistics),
		Exports:      handler.NewExportHandler(s.Exports, s.ExportJobs),
		Metrics:      handler.NewMetricsHandler(s.Metrics, a.DB),
	}
}

// Close stops background work and releases connections.
func (a *App) Close() {
	for _, fn := range a.stopFuncs {
		fn()
	}
	a.stopFuncs = nil
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Sugar().Warnw("close redis", "error", err)
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Sugar().Warnw("close postgres", "error", err)
		}
	}
}
