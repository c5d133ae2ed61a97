package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"focusflow/pkg/types"
)

// PostgresStore implements ActivityStore on PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS tasks (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	title             TEXT NOT NULL,
	completed         BOOLEAN NOT NULL DEFAULT FALSE,
	created_at        TIMESTAMPTZ NOT NULL,
	completed_at      TIMESTAMPTZ,
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
	progress DOUBLE PRECISION NOT NULL DEFAULT 0,
	deadline TIMESTAMPTZ,
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
	completed_on TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (habit_id, completed_on)
);

CREATE TABLE IF NOT EXISTS time_entries (
	id               TEXT PRIMARY KEY,
	user_id          TEXT NOT NULL,
	task_id          TEXT,
	start_time       TIMESTAMPTZ NOT NULL,
	end_time         TIMESTAMPTZ,
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	category         TEXT
);
CREATE INDEX IF NOT EXISTS idx_time_entries_user ON time_entries(user_id, start_time);
`

// NewPostgresStore opens (and migrates) a PostgreSQL activity store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// SaveTask upserts a task
func (p *PostgresStore) SaveTask(ctx context.Context, task *types.Task) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO tasks
			(id, user_id, title, completed, created_at, completed_at, priority, category, estimated_minutes, actual_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at,
			priority = EXCLUDED.priority,
			category = EXCLUDED.category,
			estimated_minutes = EXCLUDED.estimated_minutes,
			actual_minutes = EXCLUDED.actual_minutes`,
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
func (p *PostgresStore) ListTasks(ctx context.Context, userID string) ([]types.Task, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, title, completed, created_at, completed_at, priority, category, estimated_minutes, actual_minutes
		FROM tasks WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTasks(rows)
}

// SaveGoal upserts a goal
func (p *PostgresStore) SaveGoal(ctx context.Context, goal *types.Goal) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO goals (id, user_id, title, progress, deadline, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			progress = EXCLUDED.progress,
			deadline = EXCLUDED.deadline,
			category = EXCLUDED.category`,
		goal.ID, goal.UserID, goal.Title, goal.Progress, nullTime(goal.Deadline), nullString(goal.Category),
	)
	if err != nil {
		return fmt.Errorf("failed to save goal %s: %w", goal.ID, err)
	}
	return nil
}

// ListGoals returns all goals for a user
func (p *PostgresStore) ListGoals(ctx context.Context, userID string) ([]types.Goal, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, title, progress, deadline, category
		FROM goals WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanGoals(rows)
}

// SaveHabit upserts a habit definition
func (p *PostgresStore) SaveHabit(ctx context.Context, habit *types.Habit) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, title, target_per_week)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			target_per_week = EXCLUDED.target_per_week`,
		habit.ID, habit.UserID, habit.Title, habit.TargetPerWeek,
	)
	if err != nil {
		return fmt.Errorf("failed to save habit %s: %w", habit.ID, err)
	}
	return nil
}

// AddHabitCompletion records one completion day for a habit
func (p *PostgresStore) AddHabitCompletion(ctx context.Context, habitID string, day time.Time) error {
	var exists int
	err := p.db.QueryRowContext(ctx, `SELECT 1 FROM habits WHERE id = $1`, habitID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("habit %s: %w", habitID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up habit %s: %w", habitID, err)
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO habit_completions (habit_id, completed_on)
		VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		habitID, day)
	if err != nil {
		return fmt.Errorf("failed to record completion for habit %s: %w", habitID, err)
	}
	return nil
}

// ListHabits returns all habits for a user with completion history
func (p *PostgresStore) ListHabits(ctx context.Context, userID string) ([]types.Habit, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT h.id, h.user_id, h.title, h.target_per_week, c.completed_on
		FROM habits h
		LEFT JOIN habit_completions c ON c.habit_id = h.id
		WHERE h.user_id = $1
		ORDER BY h.id, c.completed_on`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanHabits(rows)
}

// SaveTimeEntry upserts a time entry
func (p *PostgresStore) SaveTimeEntry(ctx context.Context, entry *types.TimeEntry) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO time_entries (id, user_id, task_id, start_time, end_time, duration_minutes, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			duration_minutes = EXCLUDED.duration_minutes,
			category = EXCLUDED.category`,
		entry.ID, entry.UserID, nullString(entry.TaskID), entry.StartTime,
		nullTime(entry.EndTime), entry.DurationMinutes, nullString(entry.Category),
	)
	if err != nil {
		return fmt.Errorf("failed to save time entry %s: %w", entry.ID, err)
	}
	return nil
}

// ListTimeEntries returns all time entries for a user
func (p *PostgresStore) ListTimeEntries(ctx context.Context, userID string) ([]types.TimeEntry, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, user_id, task_id, start_time, end_time, duration_minutes, category
		FROM time_entries WHERE user_id = $1 ORDER BY start_time, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return scanTimeEntries(rows)
}

// ListUsers returns every user ID with at least one record
func (p *PostgresStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, `
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
func (p *PostgresStore) Dataset(ctx context.Context, userID string) (*types.ActivityDataset, error) {
	return buildDataset(ctx, p, userID)
}

// Close closes the underlying database
func (p *PostgresStore) Close() error {
	return p.db.Close()
}
