// Package api provides the HTTP API for the FocusFlow insight service:
// activity record ingestion, insight generation, reports, live updates,
// and the OpenAPI document.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"focusflow/internal/cache"
	"focusflow/internal/config"
	"focusflow/internal/insights"
	"focusflow/internal/logging"
	"focusflow/internal/reports"
	"focusflow/internal/storage"
	"focusflow/internal/websocket"
)

// Router wires the HTTP routes to the service components
type Router struct {
	cfg     *config.Config
	mux     *chi.Mux
	store   storage.ActivityStore
	cache   cache.InsightCache
	engine  *insights.Engine
	hub     *websocket.Hub
	reports *reports.Generator
	logger  logging.Logger
}

// NewRouter creates the API router with middleware and routes configured
func NewRouter(cfg *config.Config, store storage.ActivityStore, insightCache cache.InsightCache,
	engine *insights.Engine, hub *websocket.Hub, logger logging.Logger) *Router {
	r := &Router{
		cfg:     cfg,
		mux:     chi.NewRouter(),
		store:   store,
		cache:   insightCache,
		engine:  engine,
		hub:     hub,
		reports: reports.NewGenerator(),
		logger:  logger.WithComponent("api"),
	}
	r.setupMiddleware()
	r.setupRoutes()
	return r
}

// Handler returns the HTTP handler
func (r *Router) Handler() http.Handler {
	return r.mux
}

func (r *Router) setupMiddleware() {
	r.mux.Use(chimiddleware.Recoverer)
	r.mux.Use(chimiddleware.RealIP)
	r.mux.Use(r.traceMiddleware)
}

// traceMiddleware attaches a trace ID to each request context
func (r *Router) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		traceID := req.Header.Get("X-Trace-ID")
		ctx := logging.WithTraceID(req.Context(), traceID)
		w.Header().Set("X-Trace-ID", logging.GetTraceID(ctx))
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func (r *Router) setupRoutes() {
	r.mux.Get("/healthz", r.handleHealth)

	r.mux.Route("/api/v1", func(api chi.Router) {
		api.Get("/insights", r.handleGetInsights)
		api.Post("/insights/refresh", r.handleRefreshInsights)

		api.Post("/tasks", r.handleCreateTask)
		api.Get("/tasks", r.handleListTasks)

		api.Post("/goals", r.handleCreateGoal)
		api.Get("/goals", r.handleListGoals)

		api.Post("/habits", r.handleCreateHabit)
		api.Get("/habits", r.handleListHabits)
		api.Post("/habits/{habitID}/completions", r.handleAddHabitCompletion)

		api.Post("/time-entries", r.handleCreateTimeEntry)
		api.Get("/time-entries", r.handleListTimeEntries)

		api.Get("/reports/daily", r.handleDailyReport)
		api.Get("/openapi.json", r.handleOpenAPI)
	})

	if r.hub != nil {
		r.mux.Get("/ws", websocket.Handler(r.hub, r.logger))
	}
}
