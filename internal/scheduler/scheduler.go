package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const refreshTimeout = 30 * time.Second

// Refresher reloads a cached resource.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Scheduler runs periodic maintenance jobs.
type Scheduler struct {
	c         *cron.Cron
	refresher Refresher
	spec      string
	logger    *slog.Logger
}

// NewScheduler validates spec and prepares, but does not start, the jobs.
func NewScheduler(refresher Refresher, spec string, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		c:         cron.New(),
		refresher: refresher,
		spec:      spec,
		logger:    logger.With("component", "scheduler"),
	}
	if _, err := s.c.AddFunc(spec, s.RefreshBackground); err != nil {
		return nil, fmt.Errorf("invalid background refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// RefreshBackground is the job body; exported so tests and startup can run it directly.
func (s *Scheduler) RefreshBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	if _, err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("Background refresh failed", "error", err)
		return
	}
	s.logger.Debug("Background refreshed")
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.c.Start()
	s.logger.Info("Scheduler started", "background_refresh", s.spec)
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}
