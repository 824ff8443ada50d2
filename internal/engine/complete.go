package engine

import (
	"context"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// Increment records one more completion. It is a no-op at Max.
func (s *Service) Increment(ctx context.Context, id string) (*Result, error) {
	return s.step(ctx, "increment", id, +1)
}

// Decrement removes one completion. It is a no-op at zero.
func (s *Service) Decrement(ctx context.Context, id string) (*Result, error) {
	return s.step(ctx, "decrement", id, -1)
}

func (s *Service) step(ctx context.Context, op string, id string, delta int) (*Result, error) {
	res := &Result{}
	totals, err := s.mutate(ctx, op, func(r repos) (*DayTotals, error) {
		t, err := getTask(ctx, r.tasks, id)
		if err != nil {
			return nil, err
		}
		if t.IsTemplate {
			return nil, ValidationError{Field: "task", Reason: "templates do not track completions"}
		}

		next := t.CompletedCount + delta
		if next < 0 || next > t.Max {
			res.Task = *t
			return nil, nil
		}
		if err := r.tasks.UpdateCompletedCount(ctx, id, next); err != nil {
			return nil, err
		}
		t.CompletedCount = next
		res.Task = *t
		res.Changed = true
		return recompute(ctx, r, dayIDOf(t))
	})
	if err != nil {
		return nil, err
	}
	res.Totals = totals
	return res, nil
}

// ResetCompletions zeroes every completion on the day. Instances and
// templates survive.
func (s *Service) ResetCompletions(ctx context.Context, dayID string) (*DayTotals, error) {
	return s.mutate(ctx, "reset completions", func(r repos) (*DayTotals, error) {
		if _, err := getDay(ctx, r.days, dayID); err != nil {
			return nil, err
		}
		if _, err := r.tasks.ResetCompletionsByDay(ctx, dayID); err != nil {
			return nil, err
		}
		return recompute(ctx, r, dayID)
	})
}

// completedTasks counts instances at or above target; used by status views.
func completedTasks(tasks []storage.Task) int {
	n := 0
	for i := range tasks {
		if tasks[i].CompletedCount >= tasks[i].Target {
			n++
		}
	}
	return n
}
