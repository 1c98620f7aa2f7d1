// Package main is the entrypoint for the CMS API gateway.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recallwire/cms-api/internal/api"
	"github.com/recallwire/cms-api/internal/api/handler"
	mw "github.com/recallwire/cms-api/internal/api/middleware"
	"github.com/recallwire/cms-api/internal/api/response"
	"github.com/recallwire/cms-api/internal/config"
	"github.com/recallwire/cms-api/internal/content"
	"github.com/recallwire/cms-api/internal/ratelimit"
	"github.com/recallwire/cms-api/internal/storage"
	"github.com/recallwire/cms-api/internal/store"
	"github.com/recallwire/cms-api/internal/usage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	pgStore := store.NewPostgresStore(pool)

	// 4. Rate limiter: shared Redis window when configured, otherwise an
	// in-process fallback whose quotas are per instance.
	limits := ratelimit.Limits{
		Read:   cfg.RateLimit.ReadLimit,
		Write:  cfg.RateLimit.WriteLimit,
		Window: cfg.RateLimit.Window,
	}
	var limiter ratelimit.Limiter
	if cfg.Redis.URL != "" {
		redisLimiter, err := ratelimit.NewRedisLimiter(cfg.Redis.URL, limits)
		if err != nil {
			return fmt.Errorf("create redis limiter: %w", err)
		}
		defer redisLimiter.Close()
		if err := redisLimiter.Ping(ctx); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		limiter = redisLimiter
		slog.Info("redis rate limiter connected")
	} else {
		limiter = ratelimit.NewMemoryLimiter(limits)
		slog.Warn("REDIS_URL not set; rate limits are per instance, not global")
	}

	// 5. Usage recorder
	recorder := usage.NewRecorder(pgStore, cfg.Usage.Buffer)
	recorder.Start()

	// 6. Media blob storage
	blobs, err := storage.NewFS(cfg.Media.Dir, cfg.Media.BaseURL)
	if err != nil {
		return fmt.Errorf("create media storage: %w", err)
	}

	// 7. Optional content-generation client
	var generator content.Generator
	if cfg.ContentGen.URL != "" {
		generator = content.NewHTTPClient(cfg.ContentGen.URL, cfg.ContentGen.Timeout)
		slog.Info("content generation enabled", "url", cfg.ContentGen.URL)
	}

	// 8. Build router with dependencies
	deps := api.Dependencies{
		Usage:     mw.NewUsage(recorder),
		Auth:      mw.NewAuth(pgStore),
		RateLimit: mw.NewRateLimit(limiter),

		Health: healthHandler(pgStore, limiter),

		Posts:      handler.NewPosts(pgStore),
		PostTags:   handler.NewPostTags(pgStore),
		Tags:       handler.NewTags(pgStore),
		Authors:    handler.NewAuthors(pgStore),
		Categories: handler.NewCategories(pgStore),
		Media:      handler.NewMedia(pgStore, blobs),
		Keys:       handler.NewKeys(pgStore),
		Generate:   handler.NewGenerate(pgStore, generator),
	}
	router := api.NewRouter(deps)

	// 9. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := recorder.Shutdown(shutdownCtx); err != nil {
		slog.Warn("usage recorder drain incomplete", "error", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and rate-limiter connectivity.
func healthHandler(s store.Store, l ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database":     "ok",
			"rate_limiter": "ok",
		}
		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := l.Ping(r.Context()); err != nil {
			checks["rate_limiter"] = "degraded"
		}

		if checks["database"] != "ok" || checks["rate_limiter"] != "ok" {
			response.JSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":   "degraded",
				"services": checks,
			})
			return
		}
		response.JSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
