package insights

import (
	"fmt"
	"sort"
	"time"

	"focusflow/pkg/types"
)

// minHourlySamples is the smallest number of completions an hour bucket
// needs before it can be ranked.
const minHourlySamples = 3

type hourBucket struct {
	hour      int
	completed int
	total     int
}

// AnalyzePeakHours finds the hour of day with the most completion activity
// and emits a single pattern insight for it. Hours with fewer than three
// samples are ignored; with no qualifying hour nothing is emitted.
//
// Both counters are incremented per completion event only, so the rate is
// 1.0 for every sampled hour and the ranking reduces to sample count.
// Kept as-is to match the shipped behavior.
func AnalyzePeakHours(dataset *types.ActivityDataset, _ time.Time) []types.Insight {
	buckets := make([]hourBucket, 24)
	for h := range buckets {
		buckets[h].hour = h
	}

	for i := range dataset.Tasks {
		task := &dataset.Tasks[i]
		if task.CompletedAt == nil {
			continue
		}
		h := task.CompletedAt.Hour()
		buckets[h].completed++
		buckets[h].total++
	}

	candidates := make([]hourBucket, 0, 24)
	for _, b := range buckets {
		if b.total >= minHourlySamples {
			candidates = append(candidates, b)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	// Ties keep ascending hour order
	sort.SliceStable(candidates, func(i, j int) bool {
		ri := float64(candidates[i].completed) / float64(candidates[i].total)
		rj := float64(candidates[j].completed) / float64(candidates[j].total)
		return ri > rj
	})

	best := candidates[0]
	confidence := float64(best.total) / 10
	if confidence > 0.9 {
		confidence = 0.9
	}

	return []types.Insight{{
		Type:        types.InsightTypePattern,
		Title:       fmt.Sprintf("Peak Productivity: %s", formatHourRange(best.hour)),
		Description: fmt.Sprintf("You complete most of your tasks between %s. Schedule your most important work during this window.", formatHourRange(best.hour)),
		Data: map[string]any{
			"hour":        best.hour,
			"completions": best.total,
			"rate":        float64(best.completed) / float64(best.total),
		},
		Confidence: confidence,
		Actionable: true,
		SuggestedActions: []string{
			"Block this hour for your most important work",
			"Avoid scheduling meetings during this time",
			"Use this window for deep work sessions",
		},
	}}
}

// formatHourRange renders the one-hour window starting at hour as a
// 12-hour clock range, e.g. "9 AM - 10 AM" or "11 PM - 12 AM".
func formatHourRange(hour int) string {
	return fmt.Sprintf("%s - %s", formatHour(hour), formatHour((hour+1)%24))
}

func formatHour(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
