package insights

import (
	"fmt"
	"math"
	"time"

	"focusflow/pkg/types"
)

const (
	// minEstimatedSamples is the number of completed tasks with both an
	// estimate and an actual duration needed before bias is judged
	minEstimatedSamples = 5
	// biasThreshold is the mean relative error beyond which a systematic
	// bias is reported
	biasThreshold = 0.3
)

// AnalyzeTimeEstimationBias detects systematic over- or under-estimation
// of task duration. It requires at least five completed tasks carrying
// both an estimate and an actual time; below that nothing is emitted.
func AnalyzeTimeEstimationBias(dataset *types.ActivityDataset, _ time.Time) []types.Insight {
	var errSum float64
	samples := 0
	for i := range dataset.Tasks {
		task := &dataset.Tasks[i]
		if !task.Completed || task.EstimatedMinutes == nil || task.ActualMinutes == nil {
			continue
		}
		// A zero or negative estimate makes the relative error meaningless,
		// so such tasks never enter the sample.
		if *task.EstimatedMinutes <= 0 {
			continue
		}
		estimated := float64(*task.EstimatedMinutes)
		actual := float64(*task.ActualMinutes)
		errSum += (actual - estimated) / estimated
		samples++
	}
	if samples < minEstimatedSamples {
		return nil
	}

	avgError := errSum / float64(samples)
	if math.Abs(avgError) <= biasThreshold {
		return nil
	}

	direction := "underestimate"
	directionAction := "Add a 20-30% buffer to your estimates"
	if avgError < 0 {
		direction = "overestimate"
		directionAction = "Reduce your estimates to match reality"
	}
	percentage := int(math.Round(math.Abs(avgError) * 100))

	return []types.Insight{{
		Type:        types.InsightTypePattern,
		Title:       "Time Estimation Bias Detected",
		Description: fmt.Sprintf("On average you %s task duration by %d%% across %d completed tasks.", direction, percentage, samples),
		Data: map[string]any{
			"direction":  direction,
			"avg_error":  avgError,
			"percentage": percentage,
			"samples":    samples,
		},
		Confidence: 0.7,
		Actionable: true,
		SuggestedActions: []string{
			directionAction,
			"Track time more closely while working",
			"Review similar past tasks before estimating",
		},
	}}
}
