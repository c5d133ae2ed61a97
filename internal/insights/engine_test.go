package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/pkg/types"
)

// fixedNow is a midday reference point used across the analyzer tests so
// window math is deterministic.
var fixedNow = time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngineWithClock(func() time.Time { return fixedNow })
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func completedTask(id string, createdAt, completedAt time.Time) types.Task {
	return types.Task{
		ID:          id,
		Title:       "task " + id,
		Completed:   true,
		CreatedAt:   createdAt,
		CompletedAt: timePtr(completedAt),
		Priority:    types.PriorityMedium,
	}
}

func TestGenerateEmptyDataset(t *testing.T) {
	engine := testEngine()

	result := engine.Generate(&types.ActivityDataset{})
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGenerateNilDataset(t *testing.T) {
	engine := testEngine()

	result := engine.Generate(nil)
	require.NotNil(t, result)
	assert.Empty(t, result)
}

func TestGenerateSortedByConfidence(t *testing.T) {
	engine := testEngine()
	dataset := mixedDataset()

	result := engine.Generate(dataset)
	require.NotEmpty(t, result)

	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].Confidence, result[i].Confidence,
			"insights must be sorted by non-increasing confidence")
	}
	for _, insight := range result {
		assert.GreaterOrEqual(t, insight.Confidence, 0.0)
		assert.LessOrEqual(t, insight.Confidence, 1.0)
		assert.True(t, insight.Type.Valid(), "unknown insight type %q", insight.Type)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	engine := testEngine()
	dataset := mixedDataset()

	first := engine.Generate(dataset)
	second := engine.Generate(dataset)

	require.Equal(t, len(first), len(second))
	assert.Equal(t, first, second, "same dataset must yield identical output")
}

func TestGenerateDoesNotMutateDataset(t *testing.T) {
	engine := testEngine()
	dataset := mixedDataset()
	tasksBefore := len(dataset.Tasks)
	goalsBefore := len(dataset.Goals)

	_ = engine.Generate(dataset)

	assert.Equal(t, tasksBefore, len(dataset.Tasks))
	assert.Equal(t, goalsBefore, len(dataset.Goals))
}

// mixedDataset triggers several analyzers at once: a peak hour, a low
// completion rate, an at-risk goal, and a weak habit.
func mixedDataset() *types.ActivityDataset {
	dataset := &types.ActivityDataset{}

	// Three completions at 9 AM for the peak-hours analyzer, created
	// outside the 7-day window so they stay out of the pattern analyzer.
	old := fixedNow.Add(-20 * 24 * time.Hour)
	for i := 0; i < 3; i++ {
		done := old.Add(time.Duration(i*24) * time.Hour)
		done = time.Date(done.Year(), done.Month(), done.Day(), 9, 15, 0, 0, time.UTC)
		dataset.Tasks = append(dataset.Tasks, completedTask("old", old, done))
	}

	// Six recent tasks, only two completed.
	recent := fixedNow.Add(-2 * 24 * time.Hour)
	for i := 0; i < 6; i++ {
		task := types.Task{
			ID:        "recent",
			Title:     "recent task",
			CreatedAt: recent,
			Priority:  types.PriorityMedium,
		}
		if i < 2 {
			task.Completed = true
			task.CompletedAt = timePtr(recent.Add(3 * time.Hour))
		}
		dataset.Tasks = append(dataset.Tasks, task)
	}

	dataset.Goals = append(dataset.Goals, types.Goal{
		ID:       "g1",
		Title:    "Ship the release",
		Progress: 10,
		Deadline: timePtr(fixedNow.Add(5 * 24 * time.Hour)),
	})

	dataset.Habits = append(dataset.Habits, types.Habit{
		ID:            "h1",
		Title:         "Morning run",
		TargetPerWeek: 7,
		Completions:   []time.Time{fixedNow.Add(-1 * 24 * time.Hour)},
	})

	return dataset
}
