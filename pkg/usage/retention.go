package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls pruning of old daily counters.
type RetentionConfig struct {
	// Schedule is a standard cron expression, e.g. "0 3 * * *".
	// An empty schedule disables pruning.
	Schedule string

	// RetentionDays is how many days of counters to keep.
	RetentionDays int
}

// RetentionScheduler prunes old usage days from a Store on a cron schedule.
type RetentionScheduler struct {
	store   Store
	config  RetentionConfig
	now     func() time.Time
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewRetentionScheduler creates a scheduler for store.
func NewRetentionScheduler(store Store, cfg RetentionConfig) *RetentionScheduler {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 30
	}
	return &RetentionScheduler{
		store:  store,
		config: cfg,
		now:    time.Now,
		cron:   cron.New(),
		logger: slog.Default().With("component", "usage.retention"),
	}
}

// Start schedules pruning. The scheduler stops when ctx is canceled.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("usage retention schedule not configured, skipping scheduler")
		return nil
	}
	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}
	if _, err := s.cron.AddFunc(s.config.Schedule, func() { s.Prune(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("usage retention scheduler started",
		"schedule", s.config.Schedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Prune deletes counters older than the retention period.
func (s *RetentionScheduler) Prune(ctx context.Context) int {
	cutoff := s.now().UTC().AddDate(0, 0, -s.config.RetentionDays)
	deleted, err := s.store.Cleanup(ctx, cutoff)
	if err != nil {
		s.logger.Error("usage pruning failed", "error", err)
		return deleted
	}
	if deleted > 0 {
		s.logger.Info("usage pruning completed", "deleted_count", deleted, "cutoff", DayKey(cutoff))
	} else {
		s.logger.Debug("usage pruning completed, nothing to delete")
	}
	return deleted
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("usage retention scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *RetentionScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
