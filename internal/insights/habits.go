package insights

import (
	"fmt"
	"time"

	"focusflow/pkg/types"
)

const (
	// habitWindowDays is the lookback used to measure habit consistency
	habitWindowDays = 30
	// habitStrongFactor marks a habit tracking close enough to its target
	habitStrongFactor = 0.8
	// habitWeakFactor marks a habit falling well short of its target
	habitWeakFactor = 0.5
)

// AnalyzeHabitEffectiveness compares each habit's 30-day daily completion
// rate against its weekly target converted to a daily rate. Habits close
// to target earn an achievement; habits below half of target get a
// consistency recommendation; anything in between is left alone.
func AnalyzeHabitEffectiveness(dataset *types.ActivityDataset, now time.Time) []types.Insight {
	cutoff := now.Add(-habitWindowDays * 24 * time.Hour)

	var results []types.Insight
	for i := range dataset.Habits {
		habit := &dataset.Habits[i]

		count := 0
		for _, c := range habit.Completions {
			if !c.Before(cutoff) {
				count++
			}
		}

		completionRate := float64(count) / habitWindowDays
		targetRate := float64(habit.TargetPerWeek) / 7

		switch {
		case completionRate >= habitStrongFactor*targetRate:
			results = append(results, types.Insight{
				Type:        types.InsightTypeAchievement,
				Title:       fmt.Sprintf("Habit %q Going Strong", habit.Title),
				Description: fmt.Sprintf("Completed %d times in the last 30 days, right on track for your target of %d per week.", count, habit.TargetPerWeek),
				Data: map[string]any{
					"habit_id":        habit.ID,
					"completions":     count,
					"completion_rate": completionRate,
					"target_rate":     targetRate,
				},
				Confidence: 0.8,
			})
		case completionRate < habitWeakFactor*targetRate:
			results = append(results, types.Insight{
				Type:        types.InsightTypeRecommendation,
				Title:       fmt.Sprintf("Improve %q Consistency", habit.Title),
				Description: fmt.Sprintf("Completed %d times in the last 30 days against a target of %d per week. Small adjustments can rebuild the streak.", count, habit.TargetPerWeek),
				Data: map[string]any{
					"habit_id":        habit.ID,
					"completions":     count,
					"completion_rate": completionRate,
					"target_rate":     targetRate,
				},
				Confidence: 0.7,
				Actionable: true,
				SuggestedActions: []string{
					"Temporarily reduce the frequency to rebuild consistency",
					"Add a trigger or reminder at a fixed time of day",
					"Pair the habit with an existing routine",
				},
			})
		}
	}

	return results
}
