package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/internal/cache"
	"focusflow/internal/config"
	"focusflow/internal/insights"
	"focusflow/internal/logging"
	"focusflow/internal/storage"
	"focusflow/pkg/types"
)

func testRouter(t *testing.T) (*Router, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	router := NewRouter(config.DefaultConfig(), store, cache.NewNoopCache(),
		insights.NewEngine(), nil, logging.NopLogger{})
	return router, store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, config.DefaultConfig().Database.Driver, body["driver"])
}

func TestInsightsRequiresUser(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/api/v1/insights", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInsightsEmptyUser(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/api/v1/insights?user=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InsightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.UserID)
	assert.Empty(t, resp.Insights)
	assert.NotNil(t, resp.Insights)
}

func TestCreateTaskAndGenerateInsights(t *testing.T) {
	router, _ := testRouter(t)
	handler := router.Handler()

	// Six recent tasks, five completed: excellent completion achievement
	for i := 0; i < 6; i++ {
		task := map[string]any{
			"user_id":  "alice",
			"title":    fmt.Sprintf("task %d", i),
			"priority": "medium",
		}
		if i < 5 {
			task["completed"] = true
		}
		rec := doJSON(t, handler, http.MethodPost, "/api/v1/tasks", task)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created types.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/v1/insights?user=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp InsightResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Insights)
	assert.Equal(t, "Excellent Task Completion", resp.Insights[0].Title)
	assert.InDelta(t, 0.9, resp.Insights[0].Confidence, 1e-9)
}

func TestCreateTaskValidation(t *testing.T) {
	router, _ := testRouter(t)
	handler := router.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/tasks", map[string]any{"title": "no user"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/tasks", map[string]any{
		"user_id": "alice", "title": "bad", "priority": "urgent",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/tasks", map[string]any{
		"user_id": "alice", "title": "bad", "estimated_minutes": -10,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/tasks", map[string]any{
		"user_id": "alice", "title": "bad", "actual_minutes": -5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateGoalValidation(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodPost, "/api/v1/goals", map[string]any{
		"user_id": "alice", "title": "g", "progress": 140,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHabitCompletionFlow(t *testing.T) {
	router, _ := testRouter(t)
	handler := router.Handler()

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/habits", map[string]any{
		"id": "h1", "user_id": "alice", "title": "Meditate", "target_per_week": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	day := time.Date(2025, 6, 17, 0, 0, 0, 0, time.UTC)
	rec = doJSON(t, handler, http.MethodPost, "/api/v1/habits/h1/completions", map[string]any{
		"date": day.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/habits?user=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var habits []types.Habit
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &habits))
	require.Len(t, habits, 1)
	assert.Len(t, habits[0].Completions, 1)
}

func TestHabitCompletionUnknownHabit(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodPost, "/api/v1/habits/missing/completions", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDailyReportMarkdown(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/api/v1/reports/daily?user=alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/markdown")
	assert.Contains(t, rec.Body.String(), "# Daily Productivity Report")
}

func TestDailyReportHTML(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/api/v1/reports/daily?user=alice&format=html", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h1")
}

func TestDailyReportRejectsBadFormat(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/api/v1/reports/daily?user=alice&format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOpenAPIDocument(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/api/v1/openapi.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"openapi":"3.0.3"`)
	assert.Contains(t, rec.Body.String(), "/api/v1/insights")
}

func TestTraceIDHeader(t *testing.T) {
	router, _ := testRouter(t)

	rec := doJSON(t, router.Handler(), http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}
