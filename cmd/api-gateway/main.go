package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/respub-api/api/swagger"
	"github.com/noah-isme/respub-api/internal/handler"
	"github.com/noah-isme/respub-api/internal/middleware"
	"github.com/noah-isme/respub-api/internal/models"
	"github.com/noah-isme/respub-api/internal/repository"
	"github.com/noah-isme/respub-api/internal/service"
	"github.com/noah-isme/respub-api/pkg/cache"
	"github.com/noah-isme/respub-api/pkg/classifier"
	"github.com/noah-isme/respub-api/pkg/config"
	"github.com/noah-isme/respub-api/pkg/database"
	"github.com/noah-isme/respub-api/pkg/jobs"
	"github.com/noah-isme/respub-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/respub-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/respub-api/pkg/middleware/requestid"
	"github.com/noah-isme/respub-api/pkg/storage"
)

// @title ResPub API
// @version 1.0.0
// @description Research publication tracking and reporting service
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled && redisClient != nil)

	userRepo := repository.NewUserRepository(db)
	paperRepo := repository.NewPaperRepository(db)
	collegeRepo := repository.NewCollegeRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "respub-api",
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	paperSvc := service.NewPaperService(paperRepo, collegeRepo, userRepo, cacheSvc, validate, logr)
	collegeSvc := service.NewCollegeService(collegeRepo, logr)
	dashboardSvc := service.NewDashboardService(paperRepo, collegeRepo, cacheSvc, logr)
	advisorySvc := service.NewAdvisoryService(
		classifier.New(cfg.Advisory.ClassifierURL, cfg.Advisory.Timeout),
		cfg.Advisory.Timeout,
		logr,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reportSvc *service.ReportService
	var reportQueue *jobs.Queue
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
		exportSvc := service.NewExportService(paperRepo, store, signer, logr)
		worker := service.NewReportWorker(reportRepo, exportSvc, metricsSvc, cfg.Reports.WorkerRetries, logr)
		reportQueue = jobs.NewQueue("reports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Reports.WorkerConcurrency,
			MaxRetries: cfg.Reports.WorkerRetries,
			Logger:     logr,
		})
		reportSvc = service.NewReportService(reportRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
			ResultTTL:       cfg.Reports.SignedURLTTL,
			CleanupInterval: cfg.Reports.CleanupInterval,
			MaxRetries:      cfg.Reports.WorkerRetries,
		})

		reportQueue.Start(ctx)
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	userHandler := handler.NewUserHandler(userSvc)
	paperHandler := handler.NewPaperHandler(paperSvc)
	collegeHandler := handler.NewCollegeHandler(collegeSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	advisoryHandler := handler.NewAdvisoryHandler(advisorySvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.WithResponseMeta())
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	secured := api.Group("", middleware.JWT(authSvc))

	secured.GET("/dashboard", dashboardHandler.Overview)
	secured.GET("/dashboard/colleges/:id", middleware.RequireRoles(models.RoleAdmin), dashboardHandler.College)
	secured.GET("/dashboard/colleges/:id/categories/:category", middleware.RequireRoles(models.RoleAdmin), dashboardHandler.Category)

	secured.GET("/papers", paperHandler.List)
	secured.POST("/papers", paperHandler.Submit)
	secured.GET("/papers/:id", paperHandler.Get)
	if cfg.Advisory.Enabled {
		secured.POST("/papers/doi-check", advisoryHandler.Check)
	}

	secured.GET("/colleges", collegeHandler.List)
	secured.GET("/colleges/:id/departments", collegeHandler.Departments)

	users := secured.Group("/users", middleware.RequireRoles(models.RoleAdmin))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	if reportSvc != nil {
		reportHandler := handler.NewReportHandler(reportSvc)
		secured.POST("/reports/papers", reportHandler.Create)
		secured.GET("/reports/:id", reportHandler.Status)
		api.GET("/reports/download", reportHandler.Download)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
	if reportQueue != nil {
		reportQueue.Stop()
	}
}
