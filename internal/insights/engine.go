// Package insights provides the deterministic productivity insight engine:
// six independent heuristic analyzers that derive typed, confidence-scored
// findings from a user's activity snapshot, plus the orchestrator that runs
// them and ranks their combined output.
package insights

import (
	"sort"
	"time"

	"focusflow/pkg/types"
)

// Analyzer derives zero or more insights from one slice of the dataset.
// Analyzers are pure: they read the dataset, never mutate it, and never
// return an error. Under-sampled input contributes zero insights.
type Analyzer func(dataset *types.ActivityDataset, now time.Time) []types.Insight

// Engine runs the registered analyzers against one dataset and returns
// their combined output sorted by descending confidence. The engine holds
// no state between calls; concurrent use is safe.
type Engine struct {
	analyzers []Analyzer
	now       func() time.Time
}

// NewEngine creates an engine with the standard analyzer set in its
// fixed order.
func NewEngine() *Engine {
	return &Engine{
		analyzers: []Analyzer{
			AnalyzePeakHours,
			AnalyzeTaskCompletionPatterns,
			AnalyzeGoalProgress,
			AnalyzeWorkloadCapacity,
			AnalyzeHabitEffectiveness,
			AnalyzeTimeEstimationBias,
		},
		now: time.Now,
	}
}

// NewEngineWithClock creates an engine that evaluates windows against a
// fixed clock. Used by tests and by callers that replay historical data.
func NewEngineWithClock(now func() time.Time) *Engine {
	e := NewEngine()
	e.now = now
	return e
}

// Generate runs every analyzer against the dataset and returns the merged
// insight list sorted by confidence, highest first. Ties keep the order
// established by the analyzer registration order and each analyzer's own
// emission order. A nil or empty dataset yields an empty list.
func (e *Engine) Generate(dataset *types.ActivityDataset) []types.Insight {
	results := make([]types.Insight, 0)
	if dataset == nil {
		return results
	}

	now := e.now()
	for _, analyze := range e.analyzers {
		results = append(results, analyze(dataset, now)...)
	}

	for i := range results {
		results[i].Confidence = types.ClampConfidence(results[i].Confidence)
	}

	// Stable sort keeps analyzer emission order for equal confidence
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	return results
}
