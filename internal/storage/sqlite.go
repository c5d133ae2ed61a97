package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"focusflow/pkg/types"
)

// SQLiteStore implements ActivityStore on a local SQLite database
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	title             TEXT NOT NULL,
	completed         INTEGER NOT NULL DEFAULT 0,
	created_at        TIMESTAMP NOT NULL,
	completed_at      TIMESTAMP,
	priority          TEXT NOT NULL,
	category          TEXT,
	estimated_minutes INTEGER,
	actual_minutes    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_tasks_user ON tasks(user_id, created_at);

CREATE TABLE IF NOT EXISTS goals (
	id       TEXT PRIMARY KEY,
	user_id  TEXT NOT NULL,
	title    TEXT NOT NULL,
	progress REAL NOT NULL DEFAULT 0,
	deadline TIMESTAMP,
	category TEXT
);
CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id);

CREATE TABLE IF NOT EXISTS habits (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	title           TEXT NOT NULL,
	target_per_week INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_habits_user ON habits(user_id);

CREATE TABLE IF NOT EXISTS habit_completions (
	habit_id     TEXT NOT NULL REFERENCES habits(id),
	completed_on TIMESTAMP NOT NULL,
	PRIMARY KEY (habit_id, completed_on)
);

CREATE TABLE IF NOT EXISTS time_entries (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	task_id          TEXT,
	start_time       TIMESTAMP NOT NULL,
	end_time         TIMESTAMP,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	category         TEXT
);
CREATE INDEX IF NOT EXISTS idx_time_entries_user ON time_entries(user_id, start_time);
`

// NewSQLiteStore opens (and migrates) a SQLite activity store at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_sync=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// SaveTask inserts or replaces a task
func (s *SQLiteStore) SaveTask(ctx context.Context, task *types.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO tasks
			(id, user_id, title, completed, created_at, completed_at, priority, category, estimated_minutes, actual_minutes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.UserID, task.Title, task.Completed, task.CreatedAt,
		nullTime(task.CompletedAt), string(task.Priority), nullString(task.Category),
		nullInt(task.EstimatedMinutes), nullInt(task.ActualMinutes),
	)
	if err != nil {
		return fmt.Errorf("failed to save task %s: %w", task.ID, err)
	}
	return nil
}

// ListTasks returns all tasks for a user ordered by creation time
func (s *SQLiteStore) ListTasks(ctx context.Context, userID string) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, completed, created_at, completed_at, priority, category, estimated_minutes, actual_minutes
		FROM tasks WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

// SaveGoal inserts or replaces a goal
func (s *SQLiteStore) SaveGoal(ctx context.Context, goal *types.Goal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO goals (id, user_id, title, progress, deadline, category)
		VALUES (?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Title, goal.Progress, nullTime(goal.Deadline), nullString(goal.Category),
	)
	if err != nil {
		return fmt.Errorf("failed to save goal %s: %w", goal.ID, err)
	}
	return nil
}

// ListGoals returns all goals for a user
func (s *SQLiteStore) ListGoals(ctx context.Context, userID string) ([]types.Goal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, progress, deadline, category
		FROM goals WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanGoals(rows)
}

// SaveHabit inserts or replaces a habit definition. Completions are
// recorded separately via AddHabitCompletion.
func (s *SQLiteStore) SaveHabit(ctx context.Context, habit *types.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO habits (id, user_id, title, target_per_week)
		VALUES (?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Title, habit.TargetPerWeek,
	)
	if err != nil {
		return fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}
	return nil
}

// AddHabitCompletion records one completion day for a habit. Recording
// the same day twice is a no-op.
func (s *SQLiteStore) AddHabitCompletion(ctx context.Context, habitID string, day time.Time) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM habits WHERE id = ?`, habitID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up habit %s: %w", habitID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO habit_completions (habit_id, completed_on) VALUES (?, ?)`,
		habitID, day)
	if err != nil {
		return fmt.Errorf("failed to record completion for habit %s: %w", habitID, err)
	}
	return nil
}

// ListHabits returns all habits for a user with their completion history
func (s *SQLiteStore) ListHabits(ctx context.Context, userID string) ([]types.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.user_id, h.title, h.target_per_week, c.completed_on
		FROM habits h
		LEFT JOIN habit_completions c ON c.habit_id = h.id
		WHERE h.user_id = ?
		ORDER BY h.id, c.completed_on`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHabits(rows)
}

// SaveTimeEntry inserts or replaces a time entry
func (s *SQLiteStore) SaveTimeEntry(ctx context.Context, entry *types.TimeEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO time_entries (id, user_id, task_id, start_time, end_time, duration_minutes, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, nullString(entry.TaskID), entry.StartTime,
		nullTime(entry.EndTime), entry.DurationMinutes, nullString(entry.Category),
	)
	if err != nil {
		return fmt.Errorf("failed to save time entry %s: %w", entry.ID, err)
	}
	return nil
}

// ListTimeEntries returns all time entries for a user
func (s *SQLiteStore) ListTimeEntries(ctx context.Context, userID string) ([]types.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, task_id, start_time, end_time, duration_minutes, category
		FROM time_entries WHERE user_id = ? ORDER BY start_time, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTimeEntries(rows)
}

// ListUsers returns every user ID with at least one record
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM tasks
		UNION SELECT user_id FROM goals
		UNION SELECT user_id FROM habits
		UNION SELECT user_id FROM time_entries
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// Dataset assembles the full activity snapshot for one user
func (s *SQLiteStore) Dataset(ctx context.Context, userID string) (*types.ActivityDataset, error) {
	return buildDataset(ctx, s, userID)
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
