package rollover

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/sasakorman/taxrunner/internal/services/registry"
)

// Scheduler runs the periodic background jobs: the 1s epoch check and
// the registry snapshot flush. Both run off request goroutines so they
// never add to request latency.
type Scheduler struct {
	sched  gocron.Scheduler
	logger *slog.Logger
}

// SchedulerConfig holds job intervals
type SchedulerConfig struct {
	TickInterval  time.Duration
	FlushInterval time.Duration
}

// DefaultSchedulerConfig returns the standard intervals
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		TickInterval:  time.Second,
		FlushInterval: 30 * time.Second,
	}
}

// NewScheduler wires the background jobs onto a gocron scheduler
func NewScheduler(ctrl *Controller, reg *registry.Service, cfg SchedulerConfig, logger *slog.Logger) (*Scheduler, error) {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultSchedulerConfig().TickInterval
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = DefaultSchedulerConfig().FlushInterval
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.TickInterval),
		gocron.NewTask(ctrl.Tick),
	); err != nil {
		return nil, err
	}

	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.FlushInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = reg.Flush(ctx)
		}),
	); err != nil {
		return nil, err
	}

	return &Scheduler{
		sched:  sched,
		logger: logger.With(slog.String("component", "scheduler")),
	}, nil
}

// Start begins running the background jobs
func (s *Scheduler) Start() {
	s.sched.Start()
	s.logger.Info("background jobs started")
}

// Stop shuts the scheduler down, waiting for running jobs
func (s *Scheduler) Stop() error {
	s.logger.Info("background jobs stopping")
	return s.sched.Shutdown()
}
