package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/pkg/types"
)

func estimatedTask(estimated, actual int) types.Task {
	created := fixedNow.Add(-5 * 24 * time.Hour)
	return types.Task{
		ID:               "t",
		Title:            "estimated",
		Completed:        true,
		CreatedAt:        created,
		CompletedAt:      timePtr(created.Add(time.Hour)),
		Priority:         types.PriorityMedium,
		EstimatedMinutes: intPtr(estimated),
		ActualMinutes:    intPtr(actual),
	}
}

func TestEstimationUnderestimateDetected(t *testing.T) {
	// Every task took 1.5x its estimate: avg error +0.5
	dataset := &types.ActivityDataset{}
	for i := 0; i < 5; i++ {
		dataset.Tasks = append(dataset.Tasks, estimatedTask(60, 90))
	}

	result := AnalyzeTimeEstimationBias(dataset, fixedNow)
	require.Len(t, result, 1)

	insight := result[0]
	assert.Equal(t, types.InsightTypePattern, insight.Type)
	assert.Equal(t, "Time Estimation Bias Detected", insight.Title)
	assert.Equal(t, "underestimate", insight.Data["direction"])
	assert.Equal(t, 50, insight.Data["percentage"])
	assert.InDelta(t, 0.7, insight.Confidence, 1e-9)
	assert.Equal(t, "Add a 20-30% buffer to your estimates", insight.SuggestedActions[0])
}

func TestEstimationOverestimateDetected(t *testing.T) {
	// Every task took half its estimate: avg error -0.5
	dataset := &types.ActivityDataset{}
	for i := 0; i < 6; i++ {
		dataset.Tasks = append(dataset.Tasks, estimatedTask(60, 30))
	}

	result := AnalyzeTimeEstimationBias(dataset, fixedNow)
	require.Len(t, result, 1)
	assert.Equal(t, "overestimate", result[0].Data["direction"])
	assert.Equal(t, "Reduce your estimates to match reality", result[0].SuggestedActions[0])
}

func TestEstimationTooFewSamples(t *testing.T) {
	dataset := &types.ActivityDataset{}
	for i := 0; i < 4; i++ {
		dataset.Tasks = append(dataset.Tasks, estimatedTask(30, 90))
	}

	result := AnalyzeTimeEstimationBias(dataset, fixedNow)
	assert.Empty(t, result)
}

func TestEstimationSmallBiasSilent(t *testing.T) {
	// 10% average error stays under the 30% threshold
	dataset := &types.ActivityDataset{}
	for i := 0; i < 5; i++ {
		dataset.Tasks = append(dataset.Tasks, estimatedTask(60, 66))
	}

	result := AnalyzeTimeEstimationBias(dataset, fixedNow)
	assert.Empty(t, result)
}

func TestEstimationSkipsNonPositiveEstimates(t *testing.T) {
	// Zero estimates would divide to +Inf and poison the average
	dataset := &types.ActivityDataset{}
	for i := 0; i < 5; i++ {
		dataset.Tasks = append(dataset.Tasks, estimatedTask(0, 60))
	}
	assert.Empty(t, AnalyzeTimeEstimationBias(dataset, fixedNow))

	// Mixed in with valid samples they are excluded, not averaged
	for i := 0; i < 5; i++ {
		dataset.Tasks = append(dataset.Tasks, estimatedTask(60, 90))
	}
	dataset.Tasks = append(dataset.Tasks, estimatedTask(-30, 60))

	result := AnalyzeTimeEstimationBias(dataset, fixedNow)
	require.Len(t, result, 1)
	assert.Equal(t, 5, result[0].Data["samples"])
	assert.Equal(t, 50, result[0].Data["percentage"])
	assert.InDelta(t, 0.5, result[0].Data["avg_error"].(float64), 1e-9)
}

func TestEstimationIgnoresIncompleteAndUnmeasuredTasks(t *testing.T) {
	dataset := &types.ActivityDataset{}
	// Completed but no actual time recorded
	for i := 0; i < 5; i++ {
		task := estimatedTask(60, 90)
		task.ActualMinutes = nil
		dataset.Tasks = append(dataset.Tasks, task)
	}
	// Not completed
	for i := 0; i < 5; i++ {
		task := estimatedTask(60, 90)
		task.Completed = false
		task.CompletedAt = nil
		dataset.Tasks = append(dataset.Tasks, task)
	}

	result := AnalyzeTimeEstimationBias(dataset, fixedNow)
	assert.Empty(t, result)
}
