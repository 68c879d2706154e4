package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Job is the work run on every tick.
type Job func(ctx context.Context) error

// AuditCleanupScheduler runs audit retention cleanup on a cron schedule.
type AuditCleanupScheduler struct {
	schedule string
	job      Job
	timeout  time.Duration

	cron       *cron.Cron
	mu         sync.RWMutex
	isRunning  bool
	runCtx     context.Context
	cancelFunc context.CancelFunc
}

// NewAuditCleanupScheduler creates a scheduler for job. The schedule uses the
// standard five field cron format.
func NewAuditCleanupScheduler(schedule string, job Job) *AuditCleanupScheduler {
	return &AuditCleanupScheduler{
		schedule: schedule,
		job:      job,
		timeout:  5 * time.Minute,
	}
}

func newCron() *cron.Cron {
	return cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)))
}

// ValidateSchedule reports whether schedule is a valid five field cron spec.
func ValidateSchedule(schedule string) error {
	_, err := cron.ParseStandard(schedule)
	return err
}

// NextRun returns the next time the schedule fires after from.
func NextRun(schedule string, from time.Time) (time.Time, error) {
	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// Start begins the scheduler. An empty schedule disables it.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Info().Msg("Audit cleanup scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)
	s.runCtx = cancelCtx

	// Entries from a previous start must not carry over.
	s.cron = newCron()

	if _, err := s.cron.AddFunc(s.schedule, func() { s.run(cancelCtx) }); err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRun(s.schedule, time.Now())
	log.Info().Str("schedule", s.schedule).Time("next_run", nextRun).Msg("Audit cleanup scheduler: started")

	go func() {
		<-cancelCtx.Done()
		s.stop(cancelCtx)
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *AuditCleanupScheduler) Stop() {
	s.stop(nil)
}

// stop ends the current run. A non-nil run only stops the start it belongs
// to, so a late context cancellation cannot stop a later restart.
func (s *AuditCleanupScheduler) stop(run context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning || (run != nil && run != s.runCtx) {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil
	s.runCtx = nil

	log.Info().Msg("Audit cleanup scheduler: stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// RunNow runs the job once outside the schedule.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) error {
	return s.job(ctx)
}

func (s *AuditCleanupScheduler) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.job(ctx); err != nil {
		log.Error().Err(err).Msg("Audit cleanup scheduler: run failed")
	}
}
