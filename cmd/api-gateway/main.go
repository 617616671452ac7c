package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/aesong/academy-api/api/swagger"
	"github.com/aesong/academy-api/internal/handler"
	"github.com/aesong/academy-api/internal/middleware"
	"github.com/aesong/academy-api/internal/models"
	"github.com/aesong/academy-api/internal/repository"
	"github.com/aesong/academy-api/internal/service"
	"github.com/aesong/academy-api/pkg/cache"
	"github.com/aesong/academy-api/pkg/config"
	"github.com/aesong/academy-api/pkg/database"
	"github.com/aesong/academy-api/pkg/jobs"
	"github.com/aesong/academy-api/pkg/logger"
	corsmiddleware "github.com/aesong/academy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aesong/academy-api/pkg/middleware/requestid"
	"github.com/aesong/academy-api/pkg/storage"
)

// @title Academy Admin API
// @version 1.0.0
// @description Course schedule synthesis and back-office API for the training academy.
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Holidays.CacheTTL, logr, true)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	subjectRepo := repository.NewSubjectAssignmentRepository(db)
	instructorRepo := repository.NewInstructorRepository(db)
	timetableRepo := repository.NewTimetableRepository(db)
	exportRepo := repository.NewExportRepository(db)

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "academy-api",
	})
	userSvc := service.NewUserService(userRepo, nil, logr)
	holidaySvc := service.NewHolidayService(holidayRepo, cacheSvc, cfg.Holidays.CacheTTL, logr)
	courseSvc := service.NewCourseService(courseRepo, subjectRepo, instructorRepo, logr)
	scheduleSvc := service.NewScheduleService(courseRepo, holidaySvc, subjectRepo, instructorRepo, timetableRepo, db, metricsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	holidayHandler := handler.NewHolidayHandler(holidaySvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	var exportHandler *handler.ExportHandler
	var exportQueue *jobs.Queue
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(courseRepo, timetableRepo, store, signer, service.ExportConfig{
			APIPrefix: cfg.APIPrefix,
			ResultTTL: cfg.Exports.SignedURLTTL,
		}, logr, nil, nil)
		worker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		exportQueue = jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		exportQueue.Start(ctx)

		exportJobSvc := service.NewExportJobService(exportRepo, courseRepo, exportQueue, exportSvc, logr, service.ExportJobConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobSvc.RecoverPendingJobs(ctx)
		exportJobSvc.StartCleanup(ctx)
		exportHandler = handler.NewExportHandler(exportJobSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	secured := api.Group("")
	secured.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleOperator)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	users := secured.Group("/users")
	{
		users.GET("", adminOnly, userHandler.List)
		users.POST("", adminOnly, userHandler.Create)
		users.GET("/:id", middleware.RBAC(string(models.RoleAdmin), "SELF"), userHandler.Get)
		users.PUT("/:id", adminOnly, userHandler.Update)
		users.DELETE("/:id", adminOnly, userHandler.Delete)
	}

	courses := secured.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.POST("", staff, middleware.Audit(userRepo, models.AuditActionCourseCreate, "courses"), courseHandler.Create)
		courses.GET("/:code", courseHandler.Get)
		courses.PUT("/:code", staff, middleware.Audit(userRepo, models.AuditActionCourseUpdate, "courses"), courseHandler.Update)
		courses.GET("/:code/subjects", courseHandler.SubjectPlan)
		courses.PUT("/:code/subjects", staff, courseHandler.ReplaceSubjectPlan)
		courses.POST("/:code/schedule", staff, middleware.Audit(userRepo, models.AuditActionScheduleRun, "schedules"), scheduleHandler.Run)
		courses.GET("/:code/timetable", scheduleHandler.Timetable)
	}

	holidays := secured.Group("/holidays")
	{
		holidays.GET("", holidayHandler.List)
		holidays.POST("", staff, holidayHandler.Create)
		holidays.DELETE("/:id", staff, holidayHandler.Delete)
	}

	if exportHandler != nil {
		exports := api.Group("/exports")
		{
			exports.POST("", middleware.JWT(authSvc), staff, middleware.Audit(userRepo, models.AuditActionExportRequest, "exports"), exportHandler.Create)
			exports.GET("/:id", middleware.JWT(authSvc), exportHandler.Status)
			exports.GET("/download/:token", exportHandler.Download)
		}
	}

	secured.GET("/system/metrics", adminOnly, metricsHandler.System)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("server shutdown incomplete", zap.Error(err))
	}
	if exportQueue != nil {
		exportQueue.Stop()
	}
	logr.Info("server stopped")
}
