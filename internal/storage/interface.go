// Package storage provides persistence for user activity records and the
// assembly of read-only activity datasets for the insight engine.
package storage

import (
	"context"
	"errors"
	"time"

	"focusflow/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// ActivityStore persists tasks, goals, habits, and time entries, and
// materializes per-user activity datasets for the insight engine.
// Implementations: SQLite, PostgreSQL, and an in-memory store for tests.
type ActivityStore interface {
	SaveTask(ctx context.Context, task *types.Task) error
	ListTasks(ctx context.Context, userID string) ([]types.Task, error)

	SaveGoal(ctx context.Context, goal *types.Goal) error
	ListGoals(ctx context.Context, userID string) ([]types.Goal, error)

	SaveHabit(ctx context.Context, habit *types.Habit) error
	AddHabitCompletion(ctx context.Context, habitID string, day time.Time) error
	ListHabits(ctx context.Context, userID string) ([]types.Habit, error)

	SaveTimeEntry(ctx context.Context, entry *types.TimeEntry) error
	ListTimeEntries(ctx context.Context, userID string) ([]types.TimeEntry, error)

	// ListUsers returns every user ID that has at least one record
	ListUsers(ctx context.Context) ([]string, error)

	// Dataset assembles the full activity snapshot for one user
	Dataset(ctx context.Context, userID string) (*types.ActivityDataset, error)

	Close() error
}
