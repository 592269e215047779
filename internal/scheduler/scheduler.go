package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Evicter removes sessions that have been idle too long.
type Evicter interface {
	Evict(now time.Time) int
	Len() int
}

// Scheduler periodically evicts idle widget sessions.
type Scheduler struct {
	scheduler *gocron.Scheduler
	sessions  Evicter
	interval  time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(sessions Evicter, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		sessions:  sessions,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the eviction job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) sweep() {
	removed := s.sessions.Evict(time.Now())
	if removed > 0 {
		s.logger.Info("evicted idle sessions",
			zap.Int("removed", removed),
			zap.Int("remaining", s.sessions.Len()))
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
