package insights

import (
	"fmt"
	"time"

	"focusflow/pkg/types"
)

const (
	// recentTaskWindow bounds which tasks count as recent activity
	recentTaskWindow = 7 * 24 * time.Hour
	// minRecentTasks is the sample size required before completion rate
	// is judged at all
	minRecentTasks = 5

	excellentCompletionRate = 0.8
	lowCompletionRate       = 0.5
	highPriorityShareLimit  = 0.6
)

// AnalyzeTaskCompletionPatterns evaluates the last seven days of task
// activity on two independent axes: overall completion rate (gated on a
// minimum sample of five tasks) and the share of high-priority tasks
// (gated only on the window being non-empty). Zero, one, or two insights
// may be emitted.
func AnalyzeTaskCompletionPatterns(dataset *types.ActivityDataset, now time.Time) []types.Insight {
	cutoff := now.Add(-recentTaskWindow)

	var recent []*types.Task
	for i := range dataset.Tasks {
		if !dataset.Tasks[i].CreatedAt.Before(cutoff) {
			recent = append(recent, &dataset.Tasks[i])
		}
	}
	if len(recent) == 0 {
		return nil
	}

	var results []types.Insight

	if len(recent) >= minRecentTasks {
		completed := 0
		for _, t := range recent {
			if t.Completed {
				completed++
			}
		}
		rate := float64(completed) / float64(len(recent))

		switch {
		case rate >= excellentCompletionRate:
			results = append(results, types.Insight{
				Type:        types.InsightTypeAchievement,
				Title:       "Excellent Task Completion",
				Description: fmt.Sprintf("You completed %d of %d tasks this week (%.0f%%). Keep up the momentum!", completed, len(recent), rate*100),
				Data: map[string]any{
					"completion_rate": rate,
					"completed":       completed,
					"total":           len(recent),
				},
				Confidence: 0.9,
			})
		case rate < lowCompletionRate:
			results = append(results, types.Insight{
				Type:        types.InsightTypeWarning,
				Title:       "Low Task Completion Rate",
				Description: fmt.Sprintf("Only %d of %d tasks completed this week (%.0f%%). Your task list may be overloaded.", completed, len(recent), rate*100),
				Data: map[string]any{
					"completion_rate": rate,
					"completed":       completed,
					"total":           len(recent),
				},
				Confidence: 0.8,
				Actionable: true,
				SuggestedActions: []string{
					"Break large tasks into smaller, concrete steps",
					"Set realistic deadlines for each task",
					"Limit yourself to 3-5 priorities per day",
				},
			})
		}
	}

	highPriority := 0
	for _, t := range recent {
		if t.Priority == types.PriorityHigh {
			highPriority++
		}
	}
	share := float64(highPriority) / float64(len(recent))
	if share > highPriorityShareLimit {
		results = append(results, types.Insight{
			Type:        types.InsightTypeWarning,
			Title:       "Too Many High Priority Tasks",
			Description: fmt.Sprintf("%.0f%% of this week's tasks are marked high priority. When everything is urgent, nothing is.", share*100),
			Data: map[string]any{
				"high_priority_share": share,
				"high_priority":       highPriority,
				"total":               len(recent),
			},
			Confidence: 0.7,
			Actionable: true,
			SuggestedActions: []string{
				"Reprioritize: keep only genuinely urgent tasks at high priority",
				"Delegate or defer tasks that can wait",
				"Use the Eisenhower Matrix to sort urgent from important",
			},
		})
	}

	return results
}
