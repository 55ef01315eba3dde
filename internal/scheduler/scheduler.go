// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/investifai/investif/internal/seriescache"
	"github.com/investifai/investif/internal/service"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron        *cron.Cron
	Movers      *service.MoversService
	Caches      []*seriescache.Cache
	Workspaces  *service.WorkspaceManager
	IdleTimeout time.Duration
	Ctx         context.Context
	logger      *slog.Logger
}

// NewScheduler creates a new Scheduler. Cron expressions carry a seconds field.
func NewScheduler(ctx context.Context, movers *service.MoversService, workspaces *service.WorkspaceManager, idle time.Duration, logger *slog.Logger, caches ...*seriescache.Cache) *Scheduler {
	return &Scheduler{
		Cron:        cron.New(cron.WithSeconds()),
		Movers:      movers,
		Caches:      caches,
		Workspaces:  workspaces,
		IdleTimeout: idle,
		Ctx:         ctx,
		logger:      logger,
	}
}

// RegisterAll registers the movers refresh and the sweep job.
func (s *Scheduler) RegisterAll(moversCron, sweepCron string) error {
	if _, err := s.Cron.AddFunc(moversCron, s.RefreshMovers); err != nil {
		return fmt.Errorf("register movers task: %w", err)
	}
	if _, err := s.Cron.AddFunc(sweepCron, s.Sweep); err != nil {
		return fmt.Errorf("register sweep task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.Cron.Entries()))
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RefreshMovers reloads the top movers.
func (s *Scheduler) RefreshMovers() {
	if _, err := s.Movers.Refresh(s.Ctx); err != nil {
		s.logger.Error("scheduled movers refresh failed", "error", err)
	}
}

// Sweep drops expired cache entries and idle workspaces.
func (s *Scheduler) Sweep() {
	dropped := 0
	for _, c := range s.Caches {
		dropped += c.Sweep()
	}
	evicted := s.Workspaces.EvictIdle(s.IdleTimeout)
	if dropped > 0 || evicted > 0 {
		s.logger.Info("sweep finished", "cache_entries", dropped, "workspaces", evicted)
	}
}
