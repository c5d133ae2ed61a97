package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusflow/pkg/types"
)

var reportTime = time.Date(2025, 6, 18, 9, 0, 0, 0, time.UTC)

func sampleInsights() []types.Insight {
	return []types.Insight{
		{
			Type:        types.InsightTypeAchievement,
			Title:       "Excellent Task Completion",
			Description: "You completed 5 of 6 tasks this week.",
			Confidence:  0.9,
		},
		{
			Type:             types.InsightTypeWarning,
			Title:            "Overloaded Schedule",
			Description:      "Today's tasks add up to 10 hours.",
			Confidence:       0.8,
			Actionable:       true,
			SuggestedActions: []string{"Move non-urgent tasks to tomorrow"},
		},
		{
			Type:        types.InsightTypePattern,
			Title:       "Peak Productivity: 9 AM - 10 AM",
			Description: "You complete most tasks in the morning.",
			Confidence:  0.4,
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	gen := NewGenerator()

	out, err := gen.Render("alice", sampleInsights(), reportTime, DefaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out, "# Daily Productivity Report")
	assert.Contains(t, out, "**User:** alice")
	assert.Contains(t, out, "## Achievements")
	assert.Contains(t, out, "## Warnings")
	assert.Contains(t, out, "## Patterns")
	assert.Contains(t, out, "- Move non-urgent tasks to tomorrow")
	// Achievements render before warnings
	assert.Less(t, strings.Index(out, "## Achievements"), strings.Index(out, "## Warnings"))
}

func TestRenderHTML(t *testing.T) {
	gen := NewGenerator()
	opts := Options{Format: FormatHTML}

	out, err := gen.Render("alice", sampleInsights(), reportTime, opts)
	require.NoError(t, err)

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Daily Productivity Report")
	assert.Contains(t, out, "<li>Move non-urgent tasks to tomorrow</li>")
}

func TestRenderEmpty(t *testing.T) {
	gen := NewGenerator()

	out, err := gen.Render("alice", nil, reportTime, DefaultOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "No insights for today")
}

func TestFilterByConfidenceAndType(t *testing.T) {
	gen := NewGenerator()
	opts := Options{Format: FormatMarkdown, MinConfidence: 0.5, Types: []string{"warning"}}

	out, err := gen.Render("alice", sampleInsights(), reportTime, opts)
	require.NoError(t, err)

	assert.Contains(t, out, "Overloaded Schedule")
	assert.NotContains(t, out, "Excellent Task Completion")
	assert.NotContains(t, out, "Peak Productivity")
}

func TestDecodeOptions(t *testing.T) {
	opts, err := DecodeOptions(map[string]any{
		"format":         "html",
		"min_confidence": "0.6",
		"types":          []string{"warning", "pattern"},
	})
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, opts.Format)
	assert.InDelta(t, 0.6, opts.MinConfidence, 1e-9)
	assert.Equal(t, []string{"warning", "pattern"}, opts.Types)
}

func TestDecodeOptionsRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeOptions(map[string]any{"formt": "html"})
	assert.Error(t, err)
}

func TestDecodeOptionsRejectsBadFormat(t *testing.T) {
	_, err := DecodeOptions(map[string]any{"format": "pdf"})
	assert.Error(t, err)
}
