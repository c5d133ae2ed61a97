package insights

import (
	"fmt"
	"math"
	"time"

	"focusflow/pkg/types"
)

const (
	// goalHorizonDays bounds which deadlines are close enough to judge
	goalHorizonDays = 30
	// riskDailyProgress is the daily progress rate above which a goal is
	// considered at risk of missing its deadline
	riskDailyProgress = 10.0
	// almostCompleteProgress marks a goal worth celebrating
	almostCompleteProgress = 80.0
)

// AnalyzeGoalProgress flags goals with an upcoming deadline that either
// need an unrealistic daily pace to finish, or are nearly done. Goals
// without a deadline, or whose deadline is past or more than thirty days
// out, are skipped entirely.
func AnalyzeGoalProgress(dataset *types.ActivityDataset, now time.Time) []types.Insight {
	var results []types.Insight

	for i := range dataset.Goals {
		goal := &dataset.Goals[i]
		if goal.Deadline == nil {
			continue
		}

		daysRemaining := int(math.Ceil(goal.Deadline.Sub(now).Hours() / 24))
		if daysRemaining <= 0 || daysRemaining > goalHorizonDays {
			continue
		}

		dailyNeeded := (100 - goal.Progress) / float64(daysRemaining)
		switch {
		case dailyNeeded > riskDailyProgress:
			results = append(results, types.Insight{
				Type:        types.InsightTypeWarning,
				Title:       fmt.Sprintf("Goal %q at Risk", goal.Title),
				Description: fmt.Sprintf("%.0f%% done with %d days left. You need %.1f%% progress per day to finish on time.", goal.Progress, daysRemaining, dailyNeeded),
				Data: map[string]any{
					"goal_id":        goal.ID,
					"progress":       goal.Progress,
					"days_remaining": daysRemaining,
					"daily_needed":   dailyNeeded,
				},
				Confidence: 0.8,
				Actionable: true,
				SuggestedActions: []string{
					"Dedicate focused time to this goal every day",
					"Split the remaining work into smaller milestones",
					"Consider extending the deadline if the pace is unrealistic",
				},
			})
		case goal.Progress >= almostCompleteProgress:
			results = append(results, types.Insight{
				Type:        types.InsightTypeAchievement,
				Title:       fmt.Sprintf("Goal %q Almost Complete!", goal.Title),
				Description: fmt.Sprintf("%.0f%% done with %d days to spare. The finish line is in sight.", goal.Progress, daysRemaining),
				Data: map[string]any{
					"goal_id":        goal.ID,
					"progress":       goal.Progress,
					"days_remaining": daysRemaining,
				},
				Confidence: 0.9,
			})
		}
	}

	return results
}
