package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/pkg/types"
)

func goal(progress float64, deadline *time.Time) types.Goal {
	return types.Goal{ID: "g", Title: "Learn Go", Progress: progress, Deadline: deadline}
}

func TestGoalProgressAtRisk(t *testing.T) {
	// 10% done, 5 days left: 18% per day needed
	deadline := fixedNow.Add(5 * 24 * time.Hour)
	dataset := &types.ActivityDataset{Goals: []types.Goal{goal(10, timePtr(deadline))}}

	result := AnalyzeGoalProgress(dataset, fixedNow)
	require.Len(t, result, 1)

	insight := result[0]
	assert.Equal(t, types.InsightTypeWarning, insight.Type)
	assert.Equal(t, `Goal "Learn Go" at Risk`, insight.Title)
	assert.InDelta(t, 0.8, insight.Confidence, 1e-9)
	assert.True(t, insight.Actionable)
	assert.InDelta(t, 18.0, insight.Data["daily_needed"].(float64), 1e-9)
}

func TestGoalProgressComfortablePaceSilent(t *testing.T) {
	// 50% done, 10 days left: 5% per day, under the risk threshold and
	// under the achievement bar
	deadline := fixedNow.Add(10 * 24 * time.Hour)
	dataset := &types.ActivityDataset{Goals: []types.Goal{goal(50, timePtr(deadline))}}

	result := AnalyzeGoalProgress(dataset, fixedNow)
	assert.Empty(t, result)
}

func TestGoalProgressAlmostComplete(t *testing.T) {
	// 85% done, 5 days left: 3% per day needed, progress >= 80
	deadline := fixedNow.Add(5 * 24 * time.Hour)
	dataset := &types.ActivityDataset{Goals: []types.Goal{goal(85, timePtr(deadline))}}

	result := AnalyzeGoalProgress(dataset, fixedNow)
	require.Len(t, result, 1)

	insight := result[0]
	assert.Equal(t, types.InsightTypeAchievement, insight.Type)
	assert.Equal(t, `Goal "Learn Go" Almost Complete!`, insight.Title)
	assert.InDelta(t, 0.9, insight.Confidence, 1e-9)
	assert.False(t, insight.Actionable)
}

func TestGoalProgressSkipsNoDeadline(t *testing.T) {
	dataset := &types.ActivityDataset{Goals: []types.Goal{goal(90, nil)}}

	result := AnalyzeGoalProgress(dataset, fixedNow)
	assert.Empty(t, result)
}

func TestGoalProgressSkipsDistantAndPastDeadlines(t *testing.T) {
	far := fixedNow.Add(45 * 24 * time.Hour)
	past := fixedNow.Add(-2 * 24 * time.Hour)
	dataset := &types.ActivityDataset{Goals: []types.Goal{
		goal(10, timePtr(far)),
		goal(10, timePtr(past)),
	}}

	result := AnalyzeGoalProgress(dataset, fixedNow)
	assert.Empty(t, result)
}
