package types

// InsightType represents the kind of finding an analyzer produced.
// The set is closed so rendering code can match exhaustively.
type InsightType string

const (
	// InsightTypePattern is a recurring behavior detected in the data
	InsightTypePattern InsightType = "pattern"
	// InsightTypeRecommendation is a suggested change of behavior
	InsightTypeRecommendation InsightType = "recommendation"
	// InsightTypeWarning flags a situation likely to cause a miss or overload
	InsightTypeWarning InsightType = "warning"
	// InsightTypeAchievement celebrates a streak or milestone
	InsightTypeAchievement InsightType = "achievement"
)

// Valid returns true if the insight type is one of the four known kinds
func (t InsightType) Valid() bool {
	switch t {
	case InsightTypePattern, InsightTypeRecommendation, InsightTypeWarning, InsightTypeAchievement:
		return true
	default:
		return false
	}
}

// Insight is a single confidence-scored finding produced by an analyzer.
// Insights are created fresh on every engine call, are immutable once
// returned, and are never persisted by the core.
type Insight struct {
	Type             InsightType    `json:"type"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Data             map[string]any `json:"data,omitempty"`
	Confidence       float64        `json:"confidence"`
	Actionable       bool           `json:"actionable,omitempty"`
	SuggestedActions []string       `json:"suggested_actions,omitempty"`
}

// ClampConfidence clamps a confidence score into [0,1]
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
