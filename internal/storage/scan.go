package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"focusflow/pkg/types"
)

// listingStore is the subset of ActivityStore needed to assemble a dataset
type listingStore interface {
	ListTasks(ctx context.Context, userID string) ([]types.Task, error)
	ListGoals(ctx context.Context, userID string) ([]types.Goal, error)
	ListHabits(ctx context.Context, userID string) ([]types.Habit, error)
	ListTimeEntries(ctx context.Context, userID string) ([]types.TimeEntry, error)
}

// buildDataset assembles an ActivityDataset from the per-kind listings.
// Empty slices stay non-nil so the engine and JSON encoding see empty
// arrays, not nulls.
func buildDataset(ctx context.Context, store listingStore, userID string) (*types.ActivityDataset, error) {
	tasks, err := store.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for %s: %w", userID, err)
	}
	goals, err := store.ListGoals(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals for %s: %w", userID, err)
	}
	habits, err := store.ListHabits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load habits for %s: %w", userID, err)
	}
	entries, err := store.ListTimeEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load time entries for %s: %w", userID, err)
	}

	if tasks == nil {
		tasks = []types.Task{}
	}
	if goals == nil {
		goals = []types.Goal{}
	}
	if habits == nil {
		habits = []types.Habit{}
	}
	if entries == nil {
		entries = []types.TimeEntry{}
	}

	return &types.ActivityDataset{
		Tasks:       tasks,
		Goals:       goals,
		Habits:      habits,
		TimeEntries: entries,
	}, nil
}

func scanTasks(rows *sql.Rows) ([]types.Task, error) {
	var tasks []types.Task
	for rows.Next() {
		var (
			task        types.Task
			completedAt sql.NullTime
			category    sql.NullString
			estimated   sql.NullInt64
			actual      sql.NullInt64
			priority    string
		)
		err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Completed,
			&task.CreatedAt, &completedAt, &priority, &category, &estimated, &actual)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		task.Priority = types.Priority(priority)
		if completedAt.Valid {
			t := completedAt.Time
			task.CompletedAt = &t
		}
		if category.Valid {
			task.Category = category.String
		}
		if estimated.Valid {
			v := int(estimated.Int64)
			task.EstimatedMinutes = &v
		}
		if actual.Valid {
			v := int(actual.Int64)
			task.ActualMinutes = &v
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanGoals(rows *sql.Rows) ([]types.Goal, error) {
	var goals []types.Goal
	for rows.Next() {
		var (
			goal     types.Goal
			deadline sql.NullTime
			category sql.NullString
		)
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.Progress, &deadline, &category); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if deadline.Valid {
			t := deadline.Time
			goal.Deadline = &t
		}
		if category.Valid {
			goal.Category = category.String
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// scanHabits folds the habit/completion join rows back into habit values
func scanHabits(rows *sql.Rows) ([]types.Habit, error) {
	var habits []types.Habit
	index := make(map[string]int)
	for rows.Next() {
		var (
			id, userID, title string
			target            int
			completedOn       sql.NullTime
		)
		if err := rows.Scan(&id, &userID, &title, &target, &completedOn); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		pos, seen := index[id]
		if !seen {
			habits = append(habits, types.Habit{ID: id, UserID: userID, Title: title, TargetPerWeek: target})
			pos = len(habits) - 1
			index[id] = pos
		}
		if completedOn.Valid {
			habits[pos].Completions = append(habits[pos].Completions, completedOn.Time)
		}
	}
	return habits, rows.Err()
}

func scanTimeEntries(rows *sql.Rows) ([]types.TimeEntry, error) {
	var entries []types.TimeEntry
	for rows.Next() {
		var (
			entry   types.TimeEntry
			taskID  sql.NullString
			endTime sql.NullTime
			cat     sql.NullString
		)
		err := rows.Scan(&entry.ID, &entry.UserID, &taskID, &entry.StartTime,
			&endTime, &entry.DurationMinutes, &cat)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		if taskID.Valid {
			entry.TaskID = taskID.String
		}
		if endTime.Valid {
			t := endTime.Time
			entry.EndTime = &t
		}
		if cat.Valid {
			entry.Category = cat.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
