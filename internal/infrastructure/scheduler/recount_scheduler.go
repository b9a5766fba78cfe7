package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrSchedulerNotRunning is returned when triggering a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")
)

// AttendanceRecounter recomputes the days-present counters from the
// attendance records
type AttendanceRecounter interface {
	Recount(ctx context.Context) error
}

// RecountSchedulerConfig holds configuration for the recount scheduler
type RecountSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is how often the recount runs
	Interval time.Duration
	// JobTimeout is the maximum time a single recount may run
	JobTimeout time.Duration
}

// DefaultRecountSchedulerConfig returns the default configuration:
// a nightly recount with a generous timeout
func DefaultRecountSchedulerConfig() RecountSchedulerConfig {
	return RecountSchedulerConfig{
		Enabled:    true,
		Interval:   24 * time.Hour,
		JobTimeout: 5 * time.Minute,
	}
}

// RecountScheduler periodically repairs the denormalized days-present
// counters. The counters are updated transactionally on every mark, so
// the recount is a safety net against drift from manual data edits, not
// a correctness requirement.
type RecountScheduler struct {
	config   RecountSchedulerConfig
	recorder AttendanceRecounter
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewRecountScheduler creates a new recount scheduler
func NewRecountScheduler(config RecountSchedulerConfig, recorder AttendanceRecounter, logger *zap.Logger) *RecountScheduler {
	return &RecountScheduler{
		config:   config,
		recorder: recorder,
		logger:   logger,
	}
}

// Start starts the scheduler loop
func (s *RecountScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Attendance recount scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Timep("next_run_at", s.nextRunAt))

	return nil
}

// Stop stops the scheduler gracefully
func (s *RecountScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Attendance recount scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Attendance recount scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *RecountScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runRecount(ctx)
			s.calculateNextRunTime()
		}
	}
}

func (s *RecountScheduler) calculateNextRunTime() {
	next := time.Now().Add(s.config.Interval)
	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

func (s *RecountScheduler) runRecount(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	if err := s.recorder.Recount(jobCtx); err != nil {
		s.logger.Error("Attendance recount run failed", zap.Error(err))
		return
	}

	s.logger.Info("Attendance recount run completed")
}

// TriggerManualRun runs a recount immediately, outside the schedule.
// Uses a background context so the run outlives the triggering request.
func (s *RecountScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runRecount(context.Background())
	return nil
}

// GetStatus returns the current scheduler status
func (s *RecountScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"interval":    s.config.Interval.String(),
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}

// GetLastRunAt returns when the last run occurred
func (s *RecountScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
