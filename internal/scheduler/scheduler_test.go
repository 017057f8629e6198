package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"readmekit/internal/logger"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) (string, error) {
	r.calls.Add(1)
	return "data:image/gif;base64,", r.err
}

func TestNewScheduler(t *testing.T) {
	refresher := &countingRefresher{}
	s, err := NewScheduler(refresher, "@every 1h", logger.Discard())
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	s.Start()
	s.Stop()

	if _, err := NewScheduler(refresher, "not a schedule", logger.Discard()); err == nil {
		t.Error("Expected an error for an invalid schedule, but got nil")
	}
}

func TestRefreshBackground(t *testing.T) {
	// We can't easily wait on cron timing, so run the job body directly.
	refresher := &countingRefresher{}
	s, err := NewScheduler(refresher, "@every 1h", logger.Discard())
	if err != nil {
		t.Fatalf("Expected no error, but got %v", err)
	}
	s.RefreshBackground()
	if refresher.calls.Load() != 1 {
		t.Errorf("Expected 1 refresh, got %d", refresher.calls.Load())
	}

	refresher.err = errors.New("gone")
	s.RefreshBackground()
	if refresher.calls.Load() != 2 {
		t.Errorf("Expected failures to be tolerated, got %d calls", refresher.calls.Load())
	}
}
