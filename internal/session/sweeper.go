package session

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/insightdelivered/transcript-gwa/internal/logger"
	"github.com/insightdelivered/transcript-gwa/internal/metrics"
)

// Sweeper periodically evicts expired sessions using robfig/cron.
type Sweeper struct {
	cron     *cron.Cron
	store    *Store
	metrics  *metrics.Metrics
	schedule string
}

// NewSweeper creates a sweeper for store. schedule is a cron spec such as
// "@every 10m". m may be nil.
func NewSweeper(store *Store, schedule string, m *metrics.Metrics) *Sweeper {
	return &Sweeper{
		cron:     cron.New(),
		store:    store,
		metrics:  m,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunNow); err != nil {
		return err
	}
	s.cron.Start()
	logger.Info().Str("schedule", s.schedule).Msg("session sweeper started")
	return nil
}

// Stop stops the scheduler; the returned context is done when a running
// sweep finishes.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}

// RunNow performs one sweep synchronously.
func (s *Sweeper) RunNow() {
	removed := s.store.Sweep()
	remaining := s.store.Len()
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(remaining))
	}
	if removed > 0 {
		logger.Debug().Int("removed", removed).Int("remaining", remaining).Msg("expired sessions swept")
	}
}
