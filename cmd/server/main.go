package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/sasakorman/taxrunner/internal/api"
	"github.com/sasakorman/taxrunner/internal/factory"
	"github.com/sasakorman/taxrunner/internal/services/rollover"
	redisstorage "github.com/sasakorman/taxrunner/internal/storage/redis"
)

func main() {
	// Best-effort .env for local development
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		AdminKey:    os.Getenv("ADMIN_KEY"),
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	if cfg.AdminKey == "" {
		logger.Warn("ADMIN_KEY not set; admin registration and admin claim verification are disabled")
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	if raw := os.Getenv("SNAPSHOT_INTERVAL"); raw != "" {
		interval, err := time.ParseDuration(raw)
		if err != nil {
			logger.Error("invalid SNAPSHOT_INTERVAL", slog.String("value", raw))
			os.Exit(1)
		}
		cfg.SchedulerConfig = rollover.SchedulerConfig{FlushInterval: interval}
	}

	// Create application with all services wired and the snapshot loaded
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		AdminKey: cfg.AdminKey,
		Registry: app.Registry,
		Runs:     app.Runs,
		Board:    app.Board,
		Claims:   app.Claims,
		Hub:      app.Hub,
		Clock:    app.Clock,
		Random:   app.Random,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			logger.Error("invalid PORT", slog.String("value", raw))
			os.Exit(1)
		}
		serverConfig.Port = port
	}
	server := api.NewServer(router, serverConfig, logger)

	// Start background jobs (epoch check, snapshot flush)
	app.Scheduler.Start()

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("day", string(app.Board.CurrentKey())),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	// Stop jobs and flush the registry one last time
	if err := app.Scheduler.Stop(); err != nil {
		logger.Error("scheduler stop error", slog.String("error", err.Error()))
	}
	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	if err := app.Registry.Flush(flushCtx); err != nil {
		logger.Error("final flush error", slog.String("error", err.Error()))
	}
	app.Hub.Close()

	logger.Info("server stopped")
}
