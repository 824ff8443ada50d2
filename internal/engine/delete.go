package engine

import (
	"context"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// Delete removes a task instance and recomputes its former day. Remaining
// tasks are renumbered so positions stay contiguous. Deleting a template
// archives it: it stops materializing, and instances that point at it keep
// working.
func (s *Service) Delete(ctx context.Context, id string) (*Result, error) {
	res := &Result{}
	totals, err := s.mutate(ctx, "delete", func(r repos) (*DayTotals, error) {
		t, err := getTask(ctx, r.tasks, id)
		if err != nil {
			return nil, err
		}
		res.Task = *t
		res.Changed = true

		if t.IsTemplate {
			return nil, r.tasks.Archive(ctx, id, s.clock.Now().UTC())
		}

		dayID := dayIDOf(t)
		if err := r.tasks.Delete(ctx, id); err != nil {
			return nil, err
		}
		remaining, err := r.tasks.ListByDay(ctx, dayID)
		if err != nil {
			return nil, err
		}
		if err := renumber(ctx, r.tasks, remaining); err != nil {
			return nil, err
		}
		return recompute(ctx, r, dayID)
	})
	if err != nil {
		return nil, err
	}
	res.Totals = totals
	return res, nil
}

// ClearTasks deletes every instance on the day and zeroes its points.
func (s *Service) ClearTasks(ctx context.Context, dayID string) (*DayTotals, error) {
	return s.mutate(ctx, "clear tasks", func(r repos) (*DayTotals, error) {
		if _, err := getDay(ctx, r.days, dayID); err != nil {
			return nil, err
		}
		if _, err := r.tasks.DeleteByDay(ctx, dayID); err != nil {
			return nil, err
		}
		return recompute(ctx, r, dayID)
	})
}

// renumber assigns positions 0..n-1 in slice order, writing only rows that move.
func renumber(ctx context.Context, repo *storage.TaskRepo, ordered []storage.Task) error {
	for i := range ordered {
		if ordered[i].Position == i {
			continue
		}
		if err := repo.UpdatePosition(ctx, ordered[i].ID, i); err != nil {
			return err
		}
		ordered[i].Position = i
	}
	return nil
}
