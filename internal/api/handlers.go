package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"focusflow/internal/docs"
	"focusflow/internal/reports"
	"focusflow/internal/storage"
	"focusflow/pkg/types"
)

// InsightResponse is the payload returned by the insight endpoints
type InsightResponse struct {
	UserID      string          `json:"user_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Cached      bool            `json:"cached"`
	Insights    []types.Insight `json:"insights"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *Router) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.logger.Error("failed to encode response", "error", err.Error())
	}
}

func (r *Router) writeError(w http.ResponseWriter, status int, msg string) {
	r.writeJSON(w, status, errorResponse{Error: msg})
}

// requireUser extracts the mandatory user query parameter
func (r *Router) requireUser(w http.ResponseWriter, req *http.Request) (string, bool) {
	user := req.URL.Query().Get("user")
	if user == "" {
		r.writeError(w, http.StatusBadRequest, "missing required query parameter: user")
		return "", false
	}
	return user, true
}

func (r *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	r.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"driver": r.cfg.Database.Driver,
	})
}

func (r *Router) handleGetInsights(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}
	ctx := req.Context()

	if cached, hit, err := r.cache.Get(ctx, user); err == nil && hit {
		r.writeJSON(w, http.StatusOK, InsightResponse{
			UserID:      user,
			GeneratedAt: time.Now().UTC(),
			Cached:      true,
			Insights:    cached,
		})
		return
	} else if err != nil {
		r.logger.Warn("cache read failed, regenerating", "user", user, "error", err.Error())
	}

	result, err := r.generateInsights(req, user)
	if err != nil {
		r.writeError(w, http.StatusInternalServerError, "failed to generate insights")
		return
	}
	r.writeJSON(w, http.StatusOK, result)
}

func (r *Router) handleRefreshInsights(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}

	result, err := r.generateInsights(req, user)
	if err != nil {
		r.writeError(w, http.StatusInternalServerError, "failed to generate insights")
		return
	}
	if r.hub != nil {
		r.hub.BroadcastInsights(user, result.Insights)
	}
	r.writeJSON(w, http.StatusOK, result)
}

// generateInsights assembles the dataset, runs the engine, and refills
// the cache
func (r *Router) generateInsights(req *http.Request, user string) (*InsightResponse, error) {
	ctx := req.Context()
	dataset, err := r.store.Dataset(ctx, user)
	if err != nil {
		r.logger.Error("failed to load dataset", "user", user, "error", err.Error())
		return nil, err
	}

	generated := r.engine.Generate(dataset)
	if err := r.cache.Set(ctx, user, generated); err != nil {
		r.logger.Warn("cache write failed", "user", user, "error", err.Error())
	}

	return &InsightResponse{
		UserID:      user,
		GeneratedAt: time.Now().UTC(),
		Insights:    generated,
	}, nil
}

// invalidateInsights drops stale cached insights after an activity write
func (r *Router) invalidateInsights(req *http.Request, user string) {
	if err := r.cache.Invalidate(req.Context(), user); err != nil {
		r.logger.Warn("cache invalidation failed", "user", user, "error", err.Error())
	}
}

func (r *Router) handleCreateTask(w http.ResponseWriter, req *http.Request) {
	var task types.Task
	if err := json.NewDecoder(req.Body).Decode(&task); err != nil {
		r.writeError(w, http.StatusBadRequest, "invalid task payload")
		return
	}
	if task.UserID == "" {
		r.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}
	if !task.Priority.Valid() {
		r.writeError(w, http.StatusBadRequest, "priority must be low, medium, or high")
		return
	}
	if task.EstimatedMinutes != nil && *task.EstimatedMinutes < 0 {
		r.writeError(w, http.StatusBadRequest, "estimated_minutes must not be negative")
		return
	}
	if task.ActualMinutes != nil && *task.ActualMinutes < 0 {
		r.writeError(w, http.StatusBadRequest, "actual_minutes must not be negative")
		return
	}
	if task.Completed && task.CompletedAt == nil {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	if err := r.store.SaveTask(req.Context(), &task); err != nil {
		r.logger.Error("failed to save task", "task_id", task.ID, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to save task")
		return
	}
	r.invalidateInsights(req, task.UserID)
	r.writeJSON(w, http.StatusCreated, task)
}

func (r *Router) handleListTasks(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}
	tasks, err := r.store.ListTasks(req.Context(), user)
	if err != nil {
		r.logger.Error("failed to list tasks", "user", user, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []types.Task{}
	}
	r.writeJSON(w, http.StatusOK, tasks)
}

func (r *Router) handleCreateGoal(w http.ResponseWriter, req *http.Request) {
	var goal types.Goal
	if err := json.NewDecoder(req.Body).Decode(&goal); err != nil {
		r.writeError(w, http.StatusBadRequest, "invalid goal payload")
		return
	}
	if goal.UserID == "" {
		r.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if goal.Progress < 0 || goal.Progress > 100 {
		r.writeError(w, http.StatusBadRequest, "progress must be between 0 and 100")
		return
	}
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}

	if err := r.store.SaveGoal(req.Context(), &goal); err != nil {
		r.logger.Error("failed to save goal", "goal_id", goal.ID, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to save goal")
		return
	}
	r.invalidateInsights(req, goal.UserID)
	r.writeJSON(w, http.StatusCreated, goal)
}

func (r *Router) handleListGoals(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}
	goals, err := r.store.ListGoals(req.Context(), user)
	if err != nil {
		r.logger.Error("failed to list goals", "user", user, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}
	if goals == nil {
		goals = []types.Goal{}
	}
	r.writeJSON(w, http.StatusOK, goals)
}

func (r *Router) handleCreateHabit(w http.ResponseWriter, req *http.Request) {
	var habit types.Habit
	if err := json.NewDecoder(req.Body).Decode(&habit); err != nil {
		r.writeError(w, http.StatusBadRequest, "invalid habit payload")
		return
	}
	if habit.UserID == "" {
		r.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if habit.TargetPerWeek < 0 {
		r.writeError(w, http.StatusBadRequest, "target_per_week must not be negative")
		return
	}
	if habit.ID == "" {
		habit.ID = uuid.New().String()
	}

	if err := r.store.SaveHabit(req.Context(), &habit); err != nil {
		r.logger.Error("failed to save habit", "habit_id", habit.ID, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to save habit")
		return
	}
	r.invalidateInsights(req, habit.UserID)
	r.writeJSON(w, http.StatusCreated, habit)
}

func (r *Router) handleListHabits(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}
	habits, err := r.store.ListHabits(req.Context(), user)
	if err != nil {
		r.logger.Error("failed to list habits", "user", user, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to list habits")
		return
	}
	if habits == nil {
		habits = []types.Habit{}
	}
	r.writeJSON(w, http.StatusOK, habits)
}

type habitCompletionRequest struct {
	Date *time.Time `json:"date,omitempty"`
}

func (r *Router) handleAddHabitCompletion(w http.ResponseWriter, req *http.Request) {
	habitID := chi.URLParam(req, "habitID")

	var payload habitCompletionRequest
	if req.Body != nil && req.ContentLength != 0 {
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			r.writeError(w, http.StatusBadRequest, "invalid completion payload")
			return
		}
	}
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if payload.Date != nil {
		day = payload.Date.UTC().Truncate(24 * time.Hour)
	}

	err := r.store.AddHabitCompletion(req.Context(), habitID, day)
	if errors.Is(err, storage.ErrNotFound) {
		r.writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err != nil {
		r.logger.Error("failed to record completion", "habit_id", habitID, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to record completion")
		return
	}
	r.writeJSON(w, http.StatusCreated, map[string]any{"habit_id": habitID, "date": day})
}

func (r *Router) handleCreateTimeEntry(w http.ResponseWriter, req *http.Request) {
	var entry types.TimeEntry
	if err := json.NewDecoder(req.Body).Decode(&entry); err != nil {
		r.writeError(w, http.StatusBadRequest, "invalid time entry payload")
		return
	}
	if entry.UserID == "" {
		r.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.StartTime.IsZero() {
		entry.StartTime = time.Now().UTC()
	}

	if err := r.store.SaveTimeEntry(req.Context(), &entry); err != nil {
		r.logger.Error("failed to save time entry", "entry_id", entry.ID, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to save time entry")
		return
	}
	r.invalidateInsights(req, entry.UserID)
	r.writeJSON(w, http.StatusCreated, entry)
}

func (r *Router) handleListTimeEntries(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}
	entries, err := r.store.ListTimeEntries(req.Context(), user)
	if err != nil {
		r.logger.Error("failed to list time entries", "user", user, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to list time entries")
		return
	}
	if entries == nil {
		entries = []types.TimeEntry{}
	}
	r.writeJSON(w, http.StatusOK, entries)
}

func (r *Router) handleDailyReport(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireUser(w, req)
	if !ok {
		return
	}

	raw := map[string]any{}
	query := req.URL.Query()
	if format := query.Get("format"); format != "" {
		raw["format"] = format
	}
	if min := query.Get("min_confidence"); min != "" {
		value, err := strconv.ParseFloat(min, 64)
		if err != nil {
			r.writeError(w, http.StatusBadRequest, "min_confidence must be a number")
			return
		}
		raw["min_confidence"] = value
	}
	if kinds := query.Get("types"); kinds != "" {
		raw["types"] = strings.Split(kinds, ",")
	}

	opts, err := reports.DecodeOptions(raw)
	if err != nil {
		r.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := r.generateInsights(req, user)
	if err != nil {
		r.writeError(w, http.StatusInternalServerError, "failed to generate insights")
		return
	}

	rendered, err := r.reports.Render(user, result.Insights, result.GeneratedAt, opts)
	if err != nil {
		r.logger.Error("failed to render report", "user", user, "error", err.Error())
		r.writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	contentType := "text/markdown; charset=utf-8"
	if opts.Format == reports.FormatHTML {
		contentType = "text/html; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rendered))
}

func (r *Router) handleOpenAPI(w http.ResponseWriter, req *http.Request) {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	spec := docs.BuildSpec(scheme + "://" + req.Host)
	r.writeJSON(w, http.StatusOK, spec)
}
