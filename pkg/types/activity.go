// Package types provides the shared domain types for the FocusFlow
// productivity service: activity records supplied by callers and the
// insights derived from them.
package types

import "time"

// Priority represents the urgency level assigned to a task
type Priority string

const (
	// PriorityLow represents a low urgency task
	PriorityLow Priority = "low"
	// PriorityMedium represents a medium urgency task
	PriorityMedium Priority = "medium"
	// PriorityHigh represents a high urgency task
	PriorityHigh Priority = "high"
)

// Valid returns true if the priority is one of the known levels
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Task represents a single unit of work tracked by a user.
// CompletedAt is set iff Completed is true; the supplier enforces this
// before the dataset is built. EstimatedMinutes and ActualMinutes are nil
// when unknown.
type Task struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id,omitempty"`
	Title            string     `json:"title"`
	Completed        bool       `json:"completed"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	Priority         Priority   `json:"priority"`
	Category         string     `json:"category,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	ActualMinutes    *int       `json:"actual_minutes,omitempty"`
}

// Goal represents a longer-horizon objective with percentage progress.
// Progress is always within [0,100]; Deadline is nil for open-ended goals.
type Goal struct {
	ID       string     `json:"id"`
	UserID   string     `json:"user_id,omitempty"`
	Title    string     `json:"title"`
	Progress float64    `json:"progress"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Category string     `json:"category,omitempty"`
}

// Habit represents a recurring behavior with a weekly cadence target.
// Completions is the ordered set of days the habit was performed;
// TargetPerWeek is how many completions are expected per 7 days.
type Habit struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id,omitempty"`
	Title         string      `json:"title"`
	Completions   []time.Time `json:"completions"`
	TargetPerWeek int         `json:"target_per_week"`
}

// TimeEntry represents a tracked block of time, optionally tied to a task.
// Not consumed by any current analyzer; part of the dataset contract for
// future analyzers.
type TimeEntry struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id,omitempty"`
	TaskID          string     `json:"task_id,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Category        string     `json:"category,omitempty"`
}

// ActivityDataset is the read-only snapshot of a user's activity passed
// into the insight engine. The engine never mutates it; ownership stays
// with the caller.
type ActivityDataset struct {
	Tasks       []Task      `json:"tasks"`
	Goals       []Goal      `json:"goals"`
	Habits      []Habit     `json:"habits"`
	TimeEntries []TimeEntry `json:"time_entries"`
}

// IsEmpty returns true if the dataset holds no records of any kind
func (d *ActivityDataset) IsEmpty() bool {
	return len(d.Tasks) == 0 && len(d.Goals) == 0 && len(d.Habits) == 0 && len(d.TimeEntries) == 0
}
