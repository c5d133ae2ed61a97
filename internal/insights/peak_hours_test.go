package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/pkg/types"
)

func tasksCompletedAtHour(hour, n int) []types.Task {
	tasks := make([]types.Task, 0, n)
	for i := 0; i < n; i++ {
		created := fixedNow.Add(-time.Duration(i+1) * 24 * time.Hour)
		done := time.Date(created.Year(), created.Month(), created.Day(), hour, 30, 0, 0, time.UTC)
		tasks = append(tasks, completedTask("t", created, done))
	}
	return tasks
}

func TestPeakHoursTooFewSamples(t *testing.T) {
	dataset := &types.ActivityDataset{Tasks: tasksCompletedAtHour(9, 2)}

	result := AnalyzePeakHours(dataset, fixedNow)
	assert.Empty(t, result)
}

func TestPeakHoursEmitsTopHour(t *testing.T) {
	dataset := &types.ActivityDataset{}
	dataset.Tasks = append(dataset.Tasks, tasksCompletedAtHour(9, 4)...)
	dataset.Tasks = append(dataset.Tasks, tasksCompletedAtHour(14, 3)...)

	result := AnalyzePeakHours(dataset, fixedNow)
	require.Len(t, result, 1)

	insight := result[0]
	assert.Equal(t, types.InsightTypePattern, insight.Type)
	assert.Equal(t, "Peak Productivity: 9 AM - 10 AM", insight.Title)
	assert.Equal(t, 9, insight.Data["hour"])
	assert.Equal(t, 4, insight.Data["completions"])
	assert.InDelta(t, 0.4, insight.Confidence, 1e-9)
	assert.Len(t, insight.SuggestedActions, 3)
}

func TestPeakHoursEqualRateTieKeepsEarlierHour(t *testing.T) {
	// Rate is 1.0 in every sampled bucket, so equal sample counts tie and
	// the earlier hour wins.
	dataset := &types.ActivityDataset{}
	dataset.Tasks = append(dataset.Tasks, tasksCompletedAtHour(8, 3)...)
	dataset.Tasks = append(dataset.Tasks, tasksCompletedAtHour(16, 3)...)

	result := AnalyzePeakHours(dataset, fixedNow)
	require.Len(t, result, 1)
	assert.Equal(t, 8, result[0].Data["hour"])
}

func TestPeakHoursConfidenceCapped(t *testing.T) {
	dataset := &types.ActivityDataset{Tasks: tasksCompletedAtHour(10, 15)}

	result := AnalyzePeakHours(dataset, fixedNow)
	require.Len(t, result, 1)
	assert.InDelta(t, 0.9, result[0].Confidence, 1e-9)
}

func TestFormatHourRange(t *testing.T) {
	cases := []struct {
		hour int
		want string
	}{
		{0, "12 AM - 1 AM"},
		{11, "11 AM - 12 PM"},
		{12, "12 PM - 1 PM"},
		{15, "3 PM - 4 PM"},
		{23, "11 PM - 12 AM"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatHourRange(tc.hour), "hour %d", tc.hour)
	}
}
