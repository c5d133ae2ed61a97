// Package reports renders generated insights into daily Markdown and
// HTML reports for the UI and email layers.
package reports

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"focusflow/pkg/types"
)

// FormatMarkdown and FormatHTML are the supported report formats
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

// Options controls report content and rendering
type Options struct {
	Format        string  `mapstructure:"format"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	// Types limits the report to the named insight types; empty means all
	Types []string `mapstructure:"types"`
}

// DefaultOptions returns the default report options
func DefaultOptions() Options {
	return Options{Format: FormatMarkdown}
}

// DecodeOptions builds Options from a loosely-typed map, e.g. parsed
// query parameters or a JSON body. Unknown keys are rejected.
func DecodeOptions(raw map[string]any) (Options, error) {
	opts := DefaultOptions()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opts,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return opts, fmt.Errorf("failed to build options decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return opts, fmt.Errorf("invalid report options: %w", err)
	}
	switch opts.Format {
	case FormatMarkdown, FormatHTML:
	default:
		return opts, fmt.Errorf("unknown report format: %s", opts.Format)
	}
	return opts, nil
}

// Generator renders insight reports
type Generator struct {
	md    goldmark.Markdown
	title cases.Caser
}

// NewGenerator creates a report generator
func NewGenerator() *Generator {
	return &Generator{
		md:    goldmark.New(),
		title: cases.Title(language.AmericanEnglish),
	}
}

// Render produces the daily report in the requested format
func (g *Generator) Render(userID string, insights []types.Insight, generatedAt time.Time, opts Options) (string, error) {
	markdown := g.buildMarkdown(userID, filterInsights(insights, opts), generatedAt)
	if opts.Format == FormatMarkdown {
		return markdown, nil
	}

	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}

func filterInsights(insights []types.Insight, opts Options) []types.Insight {
	allowed := make(map[string]bool, len(opts.Types))
	for _, t := range opts.Types {
		allowed[strings.ToLower(t)] = true
	}

	var kept []types.Insight
	for _, insight := range insights {
		if insight.Confidence < opts.MinConfidence {
			continue
		}
		if len(allowed) > 0 && !allowed[string(insight.Type)] {
			continue
		}
		kept = append(kept, insight)
	}
	return kept
}

// buildMarkdown writes the report grouped by insight type, keeping the
// engine's confidence ordering inside each group.
func (g *Generator) buildMarkdown(userID string, insights []types.Insight, generatedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily Productivity Report\n\n")
	fmt.Fprintf(&b, "**User:** %s  \n**Generated:** %s\n\n", userID, generatedAt.Format("January 2, 2006 15:04 MST"))

	if len(insights) == 0 {
		b.WriteString("No insights for today. Keep logging your activity and check back later.\n")
		return b.String()
	}

	order := []types.InsightType{
		types.InsightTypeAchievement,
		types.InsightTypeWarning,
		types.InsightTypeRecommendation,
		types.InsightTypePattern,
	}
	for _, kind := range order {
		var group []types.Insight
		for _, insight := range insights {
			if insight.Type == kind {
				group = append(group, insight)
			}
		}
		if len(group) == 0 {
			continue
		}

		fmt.Fprintf(&b, "## %ss\n\n", g.title.String(string(kind)))
		for _, insight := range group {
			fmt.Fprintf(&b, "### %s\n\n", insight.Title)
			fmt.Fprintf(&b, "%s\n\n", insight.Description)
			fmt.Fprintf(&b, "*Confidence: %.0f%%*\n\n", insight.Confidence*100)
			if len(insight.SuggestedActions) > 0 {
				b.WriteString("Suggested actions:\n\n")
				for _, action := range insight.SuggestedActions {
					fmt.Fprintf(&b, "- %s\n", action)
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
