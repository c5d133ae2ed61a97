package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/pkg/types"
)

func openTaskToday(estimate *int) types.Task {
	created := time.Date(fixedNow.Year(), fixedNow.Month(), fixedNow.Day(), 8, 0, 0, 0, time.UTC)
	return types.Task{
		ID:               "t",
		Title:            "today",
		CreatedAt:        created,
		Priority:         types.PriorityMedium,
		EstimatedMinutes: estimate,
	}
}

func TestWorkloadOverloaded(t *testing.T) {
	// 5 tasks x 120 min = 10h
	dataset := &types.ActivityDataset{}
	for i := 0; i < 5; i++ {
		dataset.Tasks = append(dataset.Tasks, openTaskToday(intPtr(120)))
	}

	result := AnalyzeWorkloadCapacity(dataset, fixedNow)
	require.Len(t, result, 1)

	insight := result[0]
	assert.Equal(t, types.InsightTypeWarning, insight.Type)
	assert.Equal(t, "Overloaded Schedule", insight.Title)
	assert.InDelta(t, 0.8, insight.Confidence, 1e-9)
	assert.InDelta(t, 10.0, insight.Data["estimated_hours"].(float64), 1e-9)
}

func TestWorkloadDefaultsMissingEstimates(t *testing.T) {
	// 17 tasks without estimates default to 30 min each: 8.5h
	dataset := &types.ActivityDataset{}
	for i := 0; i < 17; i++ {
		dataset.Tasks = append(dataset.Tasks, openTaskToday(nil))
	}

	result := AnalyzeWorkloadCapacity(dataset, fixedNow)
	require.Len(t, result, 1)
	assert.InDelta(t, 8.5, result[0].Data["estimated_hours"].(float64), 1e-9)
}

func TestWorkloadUnderLimitSilent(t *testing.T) {
	dataset := &types.ActivityDataset{}
	for i := 0; i < 4; i++ {
		dataset.Tasks = append(dataset.Tasks, openTaskToday(intPtr(60)))
	}

	result := AnalyzeWorkloadCapacity(dataset, fixedNow)
	assert.Empty(t, result)
}

func TestWorkloadIgnoresCompletedAndOlderTasks(t *testing.T) {
	done := openTaskToday(intPtr(600))
	done.Completed = true
	done.CompletedAt = timePtr(fixedNow)

	yesterday := openTaskToday(intPtr(600))
	yesterday.CreatedAt = fixedNow.Add(-24 * time.Hour)

	dataset := &types.ActivityDataset{Tasks: []types.Task{done, yesterday}}

	result := AnalyzeWorkloadCapacity(dataset, fixedNow)
	assert.Empty(t, result)
}
