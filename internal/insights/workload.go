package insights

import (
	"fmt"
	"time"

	"focusflow/pkg/types"
)

const (
	// defaultEstimateMinutes substitutes for tasks without an estimate
	defaultEstimateMinutes = 30
	// overloadHours is the daily workload above which the schedule is
	// flagged as overloaded
	overloadHours = 8.0
)

// AnalyzeWorkloadCapacity sums the estimated time of today's open tasks,
// defaulting missing estimates to thirty minutes, and warns when the total
// exceeds eight hours.
func AnalyzeWorkloadCapacity(dataset *types.ActivityDataset, now time.Time) []types.Insight {
	totalMinutes := 0
	openToday := 0
	for i := range dataset.Tasks {
		task := &dataset.Tasks[i]
		if task.Completed || !sameDay(task.CreatedAt, now) {
			continue
		}
		openToday++
		if task.EstimatedMinutes != nil {
			totalMinutes += *task.EstimatedMinutes
		} else {
			totalMinutes += defaultEstimateMinutes
		}
	}

	hours := float64(totalMinutes) / 60
	if hours <= overloadHours {
		return nil
	}

	return []types.Insight{{
		Type:        types.InsightTypeWarning,
		Title:       "Overloaded Schedule",
		Description: fmt.Sprintf("Today's %d open tasks add up to %.1f hours of estimated work. That is more than fits in a working day.", openToday, hours),
		Data: map[string]any{
			"estimated_hours": hours,
			"open_tasks":      openToday,
		},
		Confidence: 0.8,
		Actionable: true,
		SuggestedActions: []string{
			"Move non-urgent tasks to tomorrow",
			"Delegate what someone else can do",
			"Focus on your top 3 priorities first",
		},
	}}
}

// sameDay reports whether two instants fall on the same local calendar day
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
