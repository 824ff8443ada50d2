package engine

import (
	"context"
	"time"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// RecomputeDayPoints recalculates and stores the day's aggregate and notifies
// subscribers.
func (s *Service) RecomputeDayPoints(ctx context.Context, dayID string) (*DayTotals, error) {
	return s.mutate(ctx, "recompute", func(r repos) (*DayTotals, error) {
		return recompute(ctx, r, dayID)
	})
}

// CalculateProgress divides the day's aggregate by its target times the
// number of tasks on the day, so busier days need proportionally more points.
func (s *Service) CalculateProgress(ctx context.Context, dayID string) (float64, error) {
	day, err := getDay(ctx, s.days, dayID)
	if err != nil {
		return 0, err
	}
	tasks, err := s.tasks.ListByDay(ctx, dayID)
	if err != nil {
		return 0, err
	}
	return ComputeProgress(ComputeAggregate(tasks), day.Target*len(tasks)), nil
}

// DaySummary is a read-only snapshot of one day for status views.
type DaySummary struct {
	Day       storage.Day
	Tasks     []storage.Task
	Points    int
	Goal      int
	Progress  float64
	Completed int
}

// Summary reports the day's stored totals without mutating anything.
func (s *Service) Summary(ctx context.Context, dayID string) (*DaySummary, error) {
	day, err := getDay(ctx, s.days, dayID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	points := ComputeAggregate(tasks)
	goal := day.Target * len(tasks)
	return &DaySummary{
		Day:       *day,
		Tasks:     tasks,
		Points:    points,
		Goal:      goal,
		Progress:  ComputeProgress(points, goal),
		Completed: completedTasks(tasks),
	}, nil
}

// History returns stored days in [from, to], oldest first.
func (s *Service) History(ctx context.Context, from, to time.Time) ([]storage.Day, error) {
	if to.Before(from) {
		from, to = to, from
	}
	return s.days.ListRange(ctx, StartOfDay(from), StartOfDay(to))
}
