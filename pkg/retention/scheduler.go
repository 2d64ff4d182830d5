package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers the pruner on the cron expression from the pruner's
// configuration. An empty expression disables scheduling.
type Scheduler struct {
	pruner *Pruner
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "retention.scheduler"),
	}
}

// Start registers the pruning job and starts the cron loop. The scheduler
// shuts itself down when ctx is cancelled. Starting with an empty schedule
// does nothing and returns nil.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Debug("no prune schedule configured")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, func() {
		pruned, err := s.pruner.Prune(ctx)
		switch {
		case err != nil:
			s.logger.Error("scheduled prune failed", "error", err)
		case pruned > 0:
			s.logger.Info("scheduled prune removed test artifacts", "pruned", pruned)
		}
	}); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduled pruning enabled",
		"schedule", schedule,
		"max_age", s.pruner.config.MaxAge,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the cron loop and waits for an in-flight prune to finish.
// Safe to call repeatedly.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("scheduled pruning disabled")
}

// IsRunning reports whether the cron loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
