package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/eczbabil/ajans-yonetim-sistemi/api/swagger"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/app"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/handler"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/middleware"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/config"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/logger"
	corsmiddleware "github.com/eczbabil/ajans-yonetim-sistemi/pkg/middleware/cors"
	reqidmiddleware "github.com/eczbabil/ajans-yonetim-sistemi/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title Ajans Yönetim API
// @version 1.0.0
// @description Client, work item, deliverable and call tracking for a creative agency.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to initialise application", "error", err)
	}
	defer application.Close()
	application.Start(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(application.Services.Metrics, "/metrics"))

	handler.RegisterRoutes(r, cfg.APIPrefix, application.Handlers())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Errorw("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
	logr.Info("server stopped")
}
