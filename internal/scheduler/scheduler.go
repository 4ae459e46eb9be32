package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-lookup/internal/logger"
)

const (
	defaultInterval = time.Hour
	jobTimeout      = 30 * time.Second
)

// Pruner applies history retention limits.
type Pruner interface {
	Prune(ctx context.Context, maxEntries int, maxAge time.Duration) (int, error)
}

// Scheduler periodically prunes the search history.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	pruner     Pruner
	interval   time.Duration
	maxEntries int
	maxAge     time.Duration
	log        logger.Logger
}

// New creates a new Scheduler. A non-positive interval falls back to an hour.
func New(pruner Pruner, interval time.Duration, maxEntries int, maxAge time.Duration, log logger.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Scheduler{
		scheduler:  gocron.NewScheduler(time.UTC),
		pruner:     pruner,
		interval:   interval,
		maxEntries: maxEntries,
		maxAge:     maxAge,
		log:        log.WithField("component", "scheduler"),
	}
}

// Enabled reports whether any retention limit is configured.
func (s *Scheduler) Enabled() bool {
	return s.maxEntries > 0 || s.maxAge > 0
}

// Start schedules the retention job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		s.log.Infof("no history retention limits configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(s.RunOnce); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.Infof("history retention every %s (max entries %d, max age %s)", s.interval, s.maxEntries, s.maxAge)
	return nil
}

// RunOnce prunes the history a single time.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	removed, err := s.pruner.Prune(ctx, s.maxEntries, s.maxAge)
	if err != nil {
		s.log.Errorf("history prune failed: %v", err)
		return
	}
	if removed > 0 {
		s.log.Infof("pruned %d history records", removed)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
