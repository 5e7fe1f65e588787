package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"jobboard/internal/app"
	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	apphttp "jobboard/internal/http"
	"jobboard/internal/http/handlers"
	"jobboard/internal/http/metrics"
	httpmw "jobboard/internal/http/middleware"
	"jobboard/internal/http/response"
	"jobboard/internal/observability"
	"jobboard/internal/repository/memory"
	"jobboard/internal/repository/postgres"
	"jobboard/internal/security"
)

type repositories struct {
	applications application.Repository
	jobs         job.Repository
	bookmarks    job.BookmarkRepository
	db           *sql.DB
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	repos, err := openRepositories(cfg, logger)
	if err != nil {
		logger.Fatal("storage unavailable", zap.Error(err))
	}
	if repos.db != nil {
		defer repos.db.Close()
	}

	limiter, closeLimiter := newLimiter(cfg, logger)
	defer closeLimiter()

	applicationService := app.NewApplicationService(repos.applications, repos.jobs, logger.Named("applications"))
	jobService := app.NewJobService(repos.jobs, repos.bookmarks, logger.Named("jobs"))

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	jobHandler := handlers.NewJobHandler(jobService)
	router := apphttp.NewRouter(apphttp.RouterDependencies{
		JobHandler:         jobHandler,
		ApplicationHandler: handlers.NewApplicationHandler(applicationService, limiter, collector),
		InternalHandler:    handlers.NewInternalHandler(jobHandler, cfg.InternalAPIKey),
		AuthMiddleware:     httpmw.NewAuthMiddleware(security.NewJWTProvider(cfg.JWTSecret)),
		Metrics:            collector,
		Logger:             logger.Named("http"),
		RequestTimeout:     cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api started", zap.String("addr", server.Addr), zap.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", zap.String("signal", sig.String()))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func openRepositories(cfg *config.Config, logger *zap.Logger) (repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		apps := memory.NewApplicationRepository()
		bookmarks := memory.NewBookmarkRepository()
		return repositories{
			applications: apps,
			jobs:         memory.NewJobRepository(apps, bookmarks),
			bookmarks:    bookmarks,
		}, nil
	}
	db, err := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, logger.Named("database"))
	if err != nil {
		return repositories{}, err
	}
	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, err
		}
		logger.Info("schema applied")
	}
	return repositories{
		applications: postgres.NewApplicationRepository(db),
		jobs:         postgres.NewJobRepository(db),
		bookmarks:    postgres.NewBookmarkRepository(db),
		db:           db,
	}, nil
}

// newLimiter prefers Redis so apply windows hold across instances.
func newLimiter(cfg *config.Config, logger *zap.Logger) (httpmw.Limiter, func()) {
	if cfg.RedisURL == "" {
		return httpmw.NewRateLimiter(), func() {}
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, falling back to in-process rate limiting", zap.Error(err))
		return httpmw.NewRateLimiter(), func() {}
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable at startup", zap.Error(err))
	}
	return httpmw.NewRedisLimiter(client, "jobboard", logger.Named("ratelimit")), func() { _ = client.Close() }
}
