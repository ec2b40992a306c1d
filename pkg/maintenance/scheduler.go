// Package maintenance runs background housekeeping on cron schedules:
// reclaiming expired rate-limit windows and checkpointing the store's
// write-ahead log.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"skylarkhq/perch/pkg/config"
)

// jobTimeout bounds a single maintenance job run.
const jobTimeout = 30 * time.Second

// Scheduler owns the cron runner and the registered jobs.
type Scheduler struct {
	cfg    config.MaintenanceConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler. Jobs are added with AddSweep and
// AddCheckpoint before Start.
func New(cfg config.MaintenanceConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger.With("component", "maintenance"),
	}
}

// AddSweep schedules the rate-limiter window sweep. An empty schedule
// disables the job.
func (s *Scheduler) AddSweep(sweep func() int) error {
	if s.cfg.SweepSchedule == "" {
		return nil
	}
	_, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		removed := sweep()
		if removed > 0 {
			s.logger.Debug("swept expired rate-limit windows", "removed", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.SweepSchedule, err)
	}
	return nil
}

// AddCheckpoint schedules the store WAL checkpoint. An empty schedule
// disables the job.
func (s *Scheduler) AddCheckpoint(checkpoint func(ctx context.Context) error) error {
	if s.cfg.CheckpointSchedule == "" {
		return nil
	}
	_, err := s.cron.AddFunc(s.cfg.CheckpointSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := checkpoint(ctx); err != nil {
			s.logger.Warn("store checkpoint failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid checkpoint schedule %q: %w", s.cfg.CheckpointSchedule, err)
	}
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.cron.Start()
	s.running = true
	s.logger.Info("maintenance scheduler started",
		"sweep", s.cfg.SweepSchedule,
		"checkpoint", s.cfg.CheckpointSchedule,
	)
}

// Stop halts scheduling and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("maintenance scheduler stopped")
}
