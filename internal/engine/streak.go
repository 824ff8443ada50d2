package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// Score is the per-task detail view: streak, bonus and earned points.
type Score struct {
	TaskID string
	Streak int
	Bonus  decimal.Decimal
	Points decimal.Decimal
}

// Streak returns the number of consecutive days, ending on the task's own
// day, that the task's template has been run. The task's day always counts;
// earlier days count only while their instance met its target. Tasks that
// were not materialized from a template have a streak of 1.
func (s *Service) Streak(ctx context.Context, id string) (int, error) {
	t, err := getTask(ctx, s.tasks, id)
	if err != nil {
		return 0, err
	}
	return s.streakFor(ctx, t)
}

func (s *Service) streakFor(ctx context.Context, t *storage.Task) (int, error) {
	if t.IsTemplate {
		return 0, ValidationError{Field: "task", Reason: "templates have no streak"}
	}
	if t.SourceTemplateID == nil {
		return 1, nil
	}
	day, err := getDay(ctx, s.days, dayIDOf(t))
	if err != nil {
		return 0, err
	}
	runs, err := s.tasks.ListRunsBefore(ctx, *t.SourceTemplateID, day.Date)
	if err != nil {
		return 0, err
	}
	return streakFromRuns(day.Date, runs), nil
}

// streakFromRuns walks runs (newest first) back from the day before day.
func streakFromRuns(day time.Time, runs []storage.TemplateRun) int {
	n := 1
	expect := day.AddDate(0, 0, -1)
	for _, run := range runs {
		if !run.Date.Equal(expect) || !run.Met() {
			break
		}
		n++
		expect = expect.AddDate(0, 0, -1)
	}
	return n
}

// TaskScore computes the detailed points for one task instance.
func (s *Service) TaskScore(ctx context.Context, id string) (*Score, error) {
	t, err := getTask(ctx, s.tasks, id)
	if err != nil {
		return nil, err
	}
	streak, err := s.streakFor(ctx, t)
	if err != nil {
		return nil, err
	}
	bonus := ComputeBonus(*t, streak)
	return &Score{
		TaskID: t.ID,
		Streak: streak,
		Bonus:  bonus,
		Points: ComputePoints(*t, bonus),
	}, nil
}
