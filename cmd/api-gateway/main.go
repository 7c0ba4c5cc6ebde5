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

	_ "github.com/noah-isme/daycard-scheduler/api/swagger"
	"github.com/noah-isme/daycard-scheduler/internal/handler"
	internalmiddleware "github.com/noah-isme/daycard-scheduler/internal/middleware"
	"github.com/noah-isme/daycard-scheduler/internal/repository"
	"github.com/noah-isme/daycard-scheduler/internal/service"
	"github.com/noah-isme/daycard-scheduler/pkg/cache"
	"github.com/noah-isme/daycard-scheduler/pkg/config"
	"github.com/noah-isme/daycard-scheduler/pkg/database"
	"github.com/noah-isme/daycard-scheduler/pkg/logger"
	corsmiddleware "github.com/noah-isme/daycard-scheduler/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/daycard-scheduler/pkg/middleware/requestid"
)

// @title Day-card Scheduler API
// @version 1.0.0
// @description Task schedules made of day cards, with work-day aware slot shifting.
// @BasePath /api/v1
// @schemes http https
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, work days cache disabled", zap.Error(err))
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.WorkDays.CacheTTL, logr, cfg.WorkDays.CacheEnabled)

	workDaysSvc := service.NewWorkDaysService(repository.NewWorkDaysRepository(db), cacheSvc, metricsSvc, nil, logr, service.WorkDaysDefaults{
		WorkingDays:               cfg.WorkDays.DefaultWorkingDays,
		AllowWorkOnNonWorkingDays: cfg.WorkDays.AllowWorkOnNonWorkingDays,
		CacheTTL:                  cfg.WorkDays.CacheTTL,
	})

	auditSvc := service.NewShiftAuditService(repository.NewShiftLogRepository(db), service.ShiftAuditConfig{
		Enabled:      cfg.ShiftAudit.Enabled,
		Workers:      cfg.ShiftAudit.Workers,
		Retries:      cfg.ShiftAudit.Retries,
		DrainTimeout: cfg.ShiftAudit.DrainTimeout,
	}, logr)
	auditSvc.Start(context.Background())
	defer auditSvc.Stop()

	scheduleSvc := service.NewScheduleService(repository.NewTaskScheduleRepository(db), workDaysSvc, auditSvc, metricsSvc, nil, logr)
	exportSvc := service.NewExportService(scheduleSvc, cfg.Exports.Enabled, logr, nil, nil)
	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc, "/metrics"))
	r.Use(internalmiddleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
		"postgres": db,
		"redis":    handler.PingFunc(cacheRepo.Ping),
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.JWT(authSvc))
	handler.RegisterRoutes(api,
		handler.NewScheduleHandler(scheduleSvc, exportSvc, auditSvc),
		handler.NewWorkDaysHandler(workDaysSvc),
		metricsHandler,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
