package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blogartigo/api/internal/app/migrate"
	"github.com/blogartigo/api/internal/config"
	httpx "github.com/blogartigo/api/internal/http"
	"github.com/blogartigo/api/internal/logger"
	"github.com/blogartigo/api/internal/repository/postgres"
	"github.com/blogartigo/api/internal/service/article"
	"github.com/blogartigo/api/internal/service/auth"
	"github.com/blogartigo/api/internal/service/user"
	"github.com/blogartigo/api/internal/storage"
)

func main() {
	cfg := config.Load()
	log := logger.New("api", slog.LevelInfo)

	if cfg.JWTSecret == "" {
		log.Error("JWT_SECRET is not set, refusing to start")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.New(pool, cfg.DatabaseURL, cfg.MigrationsDir, log)
	if err != nil {
		log.Error("failed to configure migrations", "error", err)
		os.Exit(1)
	}
	defer runner.Close()
	if err := runner.Ping(ctx); err != nil {
		log.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	if err := runner.Ensure(ctx); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := postgres.New(pool)

	authSvc := auth.New(repo, log, cfg)
	userSvc := user.New(repo, log, cfg)
	articleSvc := article.New(repo, log)

	banners, uploadsDir, err := newBannerStore(ctx, cfg)
	if err != nil {
		log.Error("failed to configure banner storage", "error", err, "backend", cfg.BannerStore)
		os.Exit(1)
	}

	limiter := httpx.NewMemoryRateLimiter()
	if addr := strings.TrimSpace(cfg.RateLimitRedisAddr); addr != "" {
		redisLimiter, err := httpx.NewRedisRateLimiter(addr, cfg.RateLimitRedisPass, cfg.RateLimitRedisDB, log)
		if err != nil {
			log.Warn("redis rate limiter unavailable, falling back to memory", "error", err)
		} else {
			limiter = redisLimiter
		}
	}

	router := httpx.NewRouter(log, authSvc, userSvc, articleSvc, banners, uploadsDir, limiter, pool.Ping)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

// newBannerStore picks the banner backend. Disk storage also returns the
// directory so the router can serve it under /uploads/; S3 banners are
// served by the bucket itself.
func newBannerStore(ctx context.Context, cfg config.Config) (storage.Store, string, error) {
	switch cfg.BannerStore {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		return store, "", err
	default:
		store, err := storage.NewDiskStore(cfg.UploadsDir)
		return store, cfg.UploadsDir, err
	}
}
