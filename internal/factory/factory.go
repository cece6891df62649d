package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/sasakorman/taxrunner/internal/dependencies/clock"
	"github.com/sasakorman/taxrunner/internal/dependencies/random"
	"github.com/sasakorman/taxrunner/internal/epoch"
	"github.com/sasakorman/taxrunner/internal/services/claims"
	"github.com/sasakorman/taxrunner/internal/services/leaderboard"
	"github.com/sasakorman/taxrunner/internal/services/registry"
	"github.com/sasakorman/taxrunner/internal/services/rollover"
	"github.com/sasakorman/taxrunner/internal/services/runs"
	"github.com/sasakorman/taxrunner/internal/sse"
	"github.com/sasakorman/taxrunner/internal/storage"
	"github.com/sasakorman/taxrunner/internal/storage/memory"
	redisstorage "github.com/sasakorman/taxrunner/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.PlayerSnapshotStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry  *registry.Service
	Runs      *runs.Tracker
	Board     *leaderboard.Store
	Claims    *claims.Service
	Hub       *sse.Hub
	Rollover  *rollover.Controller
	Scheduler *rollover.Scheduler
}

// Config holds configuration for the application factory
type Config struct {
	// AdminKey is the shared admin credential (optional; empty disables
	// admin registration and the admin claim path)
	AdminKey string
	// Logger is the application logger (optional)
	Logger *slog.Logger
	// StorageType selects the snapshot backend ("memory" or "redis")
	StorageType string
	// RedisConfig holds Redis connection settings (required for redis)
	RedisConfig *redisstorage.Config
	// RegistryConfig overrides economy tuning (optional)
	RegistryConfig *registry.Config
	// SchedulerConfig overrides background job intervals (optional)
	SchedulerConfig rollover.SchedulerConfig
}

// New creates a new application with all dependencies wired and the
// registry snapshot loaded
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.PlayerSnapshotStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	regCfg := registry.DefaultConfig()
	if cfg.RegistryConfig != nil {
		regCfg = *cfg.RegistryConfig
	}
	regCfg.AdminKey = cfg.AdminKey

	app, err := newWithDependencies(store, clk, rnd, regCfg, cfg.SchedulerConfig, logger)
	if err != nil {
		return nil, err
	}

	if err := app.Registry.Load(context.Background()); err != nil {
		return nil, err
	}
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.PlayerSnapshotStore,
	clk clock.Clock,
	rnd random.Random,
	regCfg registry.Config,
	schedCfg rollover.SchedulerConfig,
	logger *slog.Logger,
) (*App, error) {
	reg := registry.New(store, clk, rnd, regCfg, logger)
	tracker := runs.New(clk, logger)
	board := leaderboard.New(epoch.DayKey(clk.Now()), logger)
	claimSvc := claims.New(clk, rnd, logger)
	hub := sse.NewHub(logger)
	go hub.Run()

	ctrl := rollover.New(clk, board, reg, tracker, claimSvc, hub, logger)
	sched, err := rollover.NewScheduler(ctrl, reg, schedCfg, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:   store,
		Clock:     clk,
		Random:    rnd,
		Registry:  reg,
		Runs:      tracker,
		Board:     board,
		Claims:    claimSvc,
		Hub:       hub,
		Rollover:  ctrl,
		Scheduler: sched,
	}, nil
}
