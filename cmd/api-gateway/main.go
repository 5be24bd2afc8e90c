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
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/campus-hub-api/api/swagger"
	"github.com/noah-isme/campus-hub-api/internal/handler"
	"github.com/noah-isme/campus-hub-api/internal/repository"
	"github.com/noah-isme/campus-hub-api/internal/router"
	"github.com/noah-isme/campus-hub-api/internal/service"
	"github.com/noah-isme/campus-hub-api/pkg/cache"
	"github.com/noah-isme/campus-hub-api/pkg/config"
	"github.com/noah-isme/campus-hub-api/pkg/database"
	"github.com/noah-isme/campus-hub-api/pkg/export"
	"github.com/noah-isme/campus-hub-api/pkg/jobs"
	"github.com/noah-isme/campus-hub-api/pkg/lock"
	"github.com/noah-isme/campus-hub-api/pkg/logger"
	"github.com/noah-isme/campus-hub-api/pkg/ratelimit"
)

// @title Campus Hub API
// @version 2.0.0
// @description Bulletin boards, factrak course reviews and ephmatch profiles
// @BasePath /api/v2
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

	db, err := database.NewPostgres(cfg.Database, cfg.Store.Timeout)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
		redisClient = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metricsSvc := service.NewMetricsService()
	validate := validator.New()
	locks := lock.NewKeyedMutex()

	threadRepo := repository.NewThreadRepository(db)
	postRepo := repository.NewPostRepository(db)
	userRepo := repository.NewUserRepository(db)
	surveyRepo := repository.NewSurveyRepository(db)
	ratingsRepo := repository.NewRatingsRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	autocompleteRepo := repository.NewAutocompleteRepository(db)
	ephmatchRepo := repository.NewEphmatchRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)
	defer cacheRepo.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, redisClient != nil)
	aggregation := service.NewAggregationService(ratingsRepo, threadRepo, surveyRepo, cacheSvc, cfg.Cache.TTL, metricsSvc, logr)

	retryQueue := jobs.NewQueue("aggregation", aggregation.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Aggregation.Workers,
		MaxRetries: cfg.Aggregation.Retries,
		RetryDelay: cfg.Aggregation.RetryDelay,
		JobTimeout: cfg.Store.Timeout,
		Logger:     logr,
	})
	retryQueue.Start(ctx)
	aggregation.UseRetryQueue(retryQueue)

	accessSvc := service.NewAccessService(service.AccessConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})
	bulletinSvc := service.NewBulletinService(threadRepo, postRepo, userRepo, aggregation, locks, cfg.Store.Timeout, validate, metricsSvc, logr)
	surveySvc := service.NewSurveyService(surveyRepo, catalogRepo, aggregation, locks, cfg.Store.Timeout, validate, metricsSvc, logr)
	moderationSvc := service.NewModerationService(surveyRepo, surveySvc, aggregation, catalogRepo,
		export.NewCSVExporter(), export.NewPDFExporter(), cfg.Store.Timeout, metricsSvc, logr)
	catalogSvc := service.NewCatalogService(catalogRepo, aggregation, cfg.Store.Timeout)
	autocompleteSvc := service.NewAutocompleteService(autocompleteRepo, service.AutocompleteConfig{ServerCap: cfg.Autocomplete.MaxLimit, HardCap: cfg.Autocomplete.HardCap}, cfg.Store.Timeout)
	ephmatchSvc := service.NewEphmatchService(ephmatchRepo, locks, cfg.Store.Timeout, metricsSvc, logr)

	paging := handler.Paging{DefaultLimit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit}

	limiter := ratelimit.NewUserLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute)
	limiter.StartSweeper(time.Minute, ctx.Done())

	engine := router.New(router.Dependencies{
		Prefix:         cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableDocs:     cfg.Env != config.EnvProduction,
		Logger:         logr,
		Access:         accessSvc,
		Metrics:        metricsSvc,
		Limiter:        limiter,
	}, router.Handlers{
		Bulletin:     handler.NewBulletinHandler(bulletinSvc, paging),
		Factrak:      handler.NewFactrakHandler(surveySvc, moderationSvc, paging),
		Catalog:      handler.NewCatalogHandler(catalogSvc, paging),
		Autocomplete: handler.NewAutocompleteHandler(autocompleteSvc),
		Ephmatch:     handler.NewEphmatchHandler(ephmatchSvc),
		Metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.Pinger{
			"database": db,
			"cache":    handler.PingFunc(cacheRepo.Ping),
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	retryQueue.Stop()
	logr.Info("server stopped")
}
