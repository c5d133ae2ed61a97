package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"focusflow/pkg/types"
)

// MemoryStore is an in-memory ActivityStore used by tests and the demo
// binary. Safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	tasks       map[string]types.Task
	goals       map[string]types.Goal
	habits      map[string]types.Habit
	timeEntries map[string]types.TimeEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:       make(map[string]types.Task),
		goals:       make(map[string]types.Goal),
		habits:      make(map[string]types.Habit),
		timeEntries: make(map[string]types.TimeEntry),
	}
}

// SaveTask inserts or replaces a task
func (m *MemoryStore) SaveTask(_ context.Context, task *types.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = *task
	return nil
}

// ListTasks returns all tasks for a user ordered by creation time
func (m *MemoryStore) ListTasks(_ context.Context, userID string) ([]types.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var tasks []types.Task
	for _, t := range m.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	return tasks, nil
}

// SaveGoal inserts or replaces a goal
func (m *MemoryStore) SaveGoal(_ context.Context, goal *types.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.goals[goal.ID] = *goal
	return nil
}

// ListGoals returns all goals for a user
func (m *MemoryStore) ListGoals(_ context.Context, userID string) ([]types.Goal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var goals []types.Goal
	for _, g := range m.goals {
		if g.UserID == userID {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

// SaveHabit inserts or replaces a habit
func (m *MemoryStore) SaveHabit(_ context.Context, habit *types.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *habit
	stored.Completions = append([]time.Time(nil), habit.Completions...)
	m.habits[habit.ID] = stored
	return nil
}

// AddHabitCompletion records one completion day for a habit
func (m *MemoryStore) AddHabitCompletion(_ context.Context, habitID string, day time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	habit, ok := m.habits[habitID]
	if !ok {
		return fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
	}
	for _, c := range habit.Completions {
		if c.Equal(day) {
			return nil
		}
	}
	habit.Completions = append(habit.Completions, day)
	m.habits[habitID] = habit
	return nil
}

// ListHabits returns all habits for a user
func (m *MemoryStore) ListHabits(_ context.Context, userID string) ([]types.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var habits []types.Habit
	for _, h := range m.habits {
		if h.UserID == userID {
			copied := h
			copied.Completions = append([]time.Time(nil), h.Completions...)
			habits = append(habits, copied)
		}
	}
	sort.Slice(habits, func(i, j int) bool { return habits[i].ID < habits[j].ID })
	return habits, nil
}

// SaveTimeEntry inserts or replaces a time entry
func (m *MemoryStore) SaveTimeEntry(_ context.Context, entry *types.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeEntries[entry.ID] = *entry
	return nil
}

// ListTimeEntries returns all time entries for a user
func (m *MemoryStore) ListTimeEntries(_ context.Context, userID string) ([]types.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []types.TimeEntry
	for _, e := range m.timeEntries {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartTime.Equal(entries[j].StartTime) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].StartTime.Before(entries[j].StartTime)
	})
	return entries, nil
}

// ListUsers returns every user ID with at least one record
func (m *MemoryStore) ListUsers(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	for _, t := range m.tasks {
		seen[t.UserID] = true
	}
	for _, g := range m.goals {
		seen[g.UserID] = true
	}
	for _, h := range m.habits {
		seen[h.UserID] = true
	}
	for _, e := range m.timeEntries {
		seen[e.UserID] = true
	}
	users := make([]string, 0, len(seen))
	for id := range seen {
		users = append(users, id)
	}
	sort.Strings(users)
	return users, nil
}

// Dataset assembles the full activity snapshot for one user
func (m *MemoryStore) Dataset(ctx context.Context, userID string) (*types.ActivityDataset, error) {
	return buildDataset(ctx, m, userID)
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}
