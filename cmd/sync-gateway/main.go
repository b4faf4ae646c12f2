package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/codepet/classroom-sync-api/api/swagger"
	"github.com/codepet/classroom-sync-api/internal/handler"
	"github.com/codepet/classroom-sync-api/internal/middleware"
	"github.com/codepet/classroom-sync-api/internal/repository"
	"github.com/codepet/classroom-sync-api/internal/service"
	"github.com/codepet/classroom-sync-api/pkg/cache"
	"github.com/codepet/classroom-sync-api/pkg/config"
	"github.com/codepet/classroom-sync-api/pkg/database"
	"github.com/codepet/classroom-sync-api/pkg/logger"
	corsmiddleware "github.com/codepet/classroom-sync-api/pkg/middleware/cors"
	reqidmiddleware "github.com/codepet/classroom-sync-api/pkg/middleware/requestid"
)

// @title Classroom Sync API
// @version 0.1.0
// @description Snapshot reconciliation service for classroom grading data
// @BasePath /api/v1
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	classroomRepo := repository.NewClassroomRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	mergeRepo := repository.NewMergeRepository(db)
	runStore := repository.NewImportRunStore(redisClient, cfg.Imports.RunRetention, cfg.Imports.DedupeTTL)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(logr, service.AuthConfig{Secret: cfg.JWT.Secret})
	importSvc := service.NewImportService(mergeRepo, runStore, validate, logr, metricsSvc, service.ImportConfig{
		WorkerConcurrency: cfg.Imports.WorkerConcurrency,
		QueueSize:         cfg.Imports.QueueSize,
	})
	catalogSvc := service.NewCatalogService(classroomRepo, assignmentRepo, submissionRepo, logr)
	exportSvc := service.NewExportService(classroomRepo, assignmentRepo, enrollmentRepo, gradeRepo, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	importSvc.Start(ctx)
	defer importSvc.Stop()

	importHandler := handler.NewImportHandler(importSvc)
	classroomHandler := handler.NewClassroomHandler(catalogSvc)
	submissionHandler := handler.NewSubmissionHandler(catalogSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.POST("/imports/snapshot", importHandler.Submit)
		api.GET("/imports/:id", importHandler.Get)

		api.GET("/classrooms", classroomHandler.List)
		api.GET("/classrooms/:id", classroomHandler.Get)
		if cfg.Exports.Enabled {
			api.GET("/classrooms/:id/gradebook", exportHandler.Gradebook)
		}

		api.GET("/submissions", submissionHandler.List)
		api.GET("/submissions/:lineageId/history", submissionHandler.History)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
