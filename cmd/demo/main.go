// demo seeds an in-memory store with a week of sample activity, runs the
// insight engine over it, and prints the ranked findings.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"focusflow/internal/insights"
	"focusflow/internal/storage"
	"focusflow/pkg/types"
)

func main() {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	if err := seed(ctx, store); err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed demo data: %v\n", err)
		os.Exit(1)
	}

	dataset, err := store.Dataset(ctx, "demo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load dataset: %v\n", err)
		os.Exit(1)
	}

	engine := insights.NewEngine()
	results := engine.Generate(dataset)

	bold := color.New(color.Bold)
	_, _ = bold.Printf("FocusFlow insight demo — %d insights\n\n", len(results))

	for _, insight := range results {
		label := color.New(typeColor(insight.Type), color.Bold)
		_, _ = label.Printf("[%s] ", insight.Type)
		_, _ = bold.Println(insight.Title)
		fmt.Printf("  %s\n", insight.Description)
		fmt.Printf("  confidence: %.0f%%\n", insight.Confidence*100)
		for _, action := range insight.SuggestedActions {
			fmt.Printf("  - %s\n", action)
		}
		fmt.Println()
	}
}

func typeColor(t types.InsightType) color.Attribute {
	switch t {
	case types.InsightTypeAchievement:
		return color.FgGreen
	case types.InsightTypeWarning:
		return color.FgRed
	case types.InsightTypeRecommendation:
		return color.FgYellow
	case types.InsightTypePattern:
		return color.FgCyan
	default:
		return color.FgWhite
	}
}

// seed loads a week of plausible activity: morning completions, a mixed
// task list, one risky goal, one strong habit, and biased estimates.
func seed(ctx context.Context, store *storage.MemoryStore) error {
	now := time.Now()
	est := func(v int) *int { return &v }

	for i := 0; i < 6; i++ {
		created := now.Add(-time.Duration(i+1) * 24 * time.Hour)
		done := time.Date(created.Year(), created.Month(), created.Day(), 9, 30, 0, 0, created.Location())
		task := &types.Task{
			ID:               fmt.Sprintf("task-%d", i),
			UserID:           "demo",
			Title:            fmt.Sprintf("Deep work block %d", i+1),
			Completed:        i < 4,
			CreatedAt:        created,
			Priority:         types.PriorityHigh,
			EstimatedMinutes: est(60),
			ActualMinutes:    est(90),
		}
		if task.Completed {
			task.CompletedAt = &done
		}
		if err := store.SaveTask(ctx, task); err != nil {
			return err
		}
	}

	// One more completed pair to cross the estimation sample gate
	for i := 6; i < 8; i++ {
		created := now.Add(-time.Duration(i+1) * 24 * time.Hour)
		done := time.Date(created.Year(), created.Month(), created.Day(), 9, 45, 0, 0, created.Location())
		task := &types.Task{
			ID:               fmt.Sprintf("task-%d", i),
			UserID:           "demo",
			Title:            fmt.Sprintf("Review session %d", i),
			Completed:        true,
			CreatedAt:        created,
			CompletedAt:      &done,
			Priority:         types.PriorityMedium,
			EstimatedMinutes: est(30),
			ActualMinutes:    est(45),
		}
		if err := store.SaveTask(ctx, task); err != nil {
			return err
		}
	}

	deadline := now.Add(6 * 24 * time.Hour)
	if err := store.SaveGoal(ctx, &types.Goal{
		ID: "goal-1", UserID: "demo", Title: "Finish quarterly review",
		Progress: 15, Deadline: &deadline, Category: "work",
	}); err != nil {
		return err
	}

	habit := &types.Habit{ID: "habit-1", UserID: "demo", Title: "Morning run", TargetPerWeek: 5}
	if err := store.SaveHabit(ctx, habit); err != nil {
		return err
	}
	for i := 0; i < 20; i++ {
		day := now.Add(-time.Duration(i) * 36 * time.Hour).Truncate(24 * time.Hour)
		if err := store.AddHabitCompletion(ctx, "habit-1", day); err != nil {
			return err
		}
	}

	return nil
}
