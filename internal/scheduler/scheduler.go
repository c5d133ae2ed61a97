// Package scheduler periodically regenerates insights for every known
// user, keeping the cache warm and pushing updates to connected clients.
package scheduler

import (
	"context"
	"time"

	"focusflow/internal/cache"
	"focusflow/internal/insights"
	"focusflow/internal/logging"
	"focusflow/internal/storage"
	"focusflow/internal/websocket"
)

// Scheduler drives the periodic insight refresh loop
type Scheduler struct {
	store    storage.ActivityStore
	cache    cache.InsightCache
	engine   *insights.Engine
	hub      *websocket.Hub
	interval time.Duration
	logger   logging.Logger
}

// New creates a scheduler. The hub may be nil when live updates are
// disabled.
func New(store storage.ActivityStore, insightCache cache.InsightCache, engine *insights.Engine,
	hub *websocket.Hub, interval time.Duration, logger logging.Logger) *Scheduler {
	return &Scheduler{
		store:    store,
		cache:    insightCache,
		engine:   engine,
		hub:      hub,
		interval: interval,
		logger:   logger.WithComponent("scheduler"),
	}
}

// Run refreshes insights on the configured interval until the context is
// canceled. The first refresh happens after one full interval.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("scheduler started", "interval", s.interval.String())
	for {
		select {
		case <-ticker.C:
			s.RefreshAll(ctx)
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// RefreshAll regenerates insights for every user with recorded activity
func (s *Scheduler) RefreshAll(ctx context.Context) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err.Error())
		return
	}

	for _, user := range users {
		if ctx.Err() != nil {
			return
		}
		s.refreshUser(ctx, user)
	}
	s.logger.Debug("refresh cycle complete", "users", len(users))
}

func (s *Scheduler) refreshUser(ctx context.Context, user string) {
	dataset, err := s.store.Dataset(ctx, user)
	if err != nil {
		s.logger.Error("failed to load dataset", "user", user, "error", err.Error())
		return
	}

	generated := s.engine.Generate(dataset)
	if err := s.cache.Set(ctx, user, generated); err != nil {
		s.logger.Warn("cache write failed", "user", user, "error", err.Error())
	}
	if s.hub != nil {
		s.hub.BroadcastInsights(user, generated)
	}
}
