package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// TaskChanges is a partial update. Nil fields are left untouched.
type TaskChanges struct {
	Title          *string
	Points         *decimal.Decimal
	CompletedCount *int
	Target         *int
	Max            *int
	Reward         *decimal.Decimal
	IsRoutine      *bool
	IsOptional     *bool
	IsCritical     *bool
}

// Empty reports whether no field is set.
func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Points == nil && c.CompletedCount == nil &&
		c.Target == nil && c.Max == nil && c.Reward == nil &&
		c.IsRoutine == nil && c.IsOptional == nil && c.IsCritical == nil
}

func (c TaskChanges) apply(t storage.Task) (storage.Task, error) {
	if c.Title != nil {
		title, err := normalizeTitle(*c.Title)
		if err != nil {
			return t, err
		}
		t.Title = title
	}
	if c.Points != nil {
		t.Points = *c.Points
	}
	if c.CompletedCount != nil {
		t.CompletedCount = *c.CompletedCount
	}
	if c.Target != nil {
		t.Target = *c.Target
	}
	if c.Max != nil {
		t.Max = *c.Max
	}
	if c.Reward != nil {
		t.Reward = *c.Reward
	}
	if c.IsRoutine != nil {
		t.IsRoutine = *c.IsRoutine
	}
	if c.IsOptional != nil {
		t.IsOptional = *c.IsOptional
	}
	if c.IsCritical != nil {
		t.IsCritical = *c.IsCritical
	}
	return t, validateTask(t)
}

// Update applies changes to a task. The merged record is validated before
// anything is written; on failure the stored task is unchanged. Template
// edits never propagate to instances that already exist.
func (s *Service) Update(ctx context.Context, id string, changes TaskChanges) (*Result, error) {
	res := &Result{}
	totals, err := s.mutate(ctx, "update", func(r repos) (*DayTotals, error) {
		cur, err := getTask(ctx, r.tasks, id)
		if err != nil {
			return nil, err
		}
		if cur.IsTemplate && changes.CompletedCount != nil {
			return nil, ValidationError{Field: "completed count", Reason: "templates do not track completions"}
		}
		next, err := changes.apply(*cur)
		if err != nil {
			return nil, err
		}
		res.Task = next
		if changes.Empty() {
			return nil, nil
		}
		if err := r.tasks.Update(ctx, &next); err != nil {
			return nil, err
		}
		res.Changed = true
		if next.IsTemplate {
			return nil, nil
		}
		return recompute(ctx, r, dayIDOf(&next))
	})
	if err != nil {
		return nil, err
	}
	res.Totals = totals
	return res, nil
}

// SetDayTarget changes the day's per-task goal and republishes progress.
func (s *Service) SetDayTarget(ctx context.Context, dayID string, target int) (*DayTotals, error) {
	if target < 0 {
		err := ValidationError{Field: "day target", Reason: "must be >= 0"}
		s.logFailure("set day target", err)
		return nil, err
	}
	return s.mutate(ctx, "set day target", func(r repos) (*DayTotals, error) {
		if _, err := getDay(ctx, r.days, dayID); err != nil {
			return nil, err
		}
		if err := r.days.UpdateTarget(ctx, dayID, target); err != nil {
			return nil, err
		}
		return recompute(ctx, r, dayID)
	})
}
