package engine

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// TaskDefinition is the user-supplied shape of a new task or template.
// A zero Target means 1 and a zero Max means Target.
type TaskDefinition struct {
	Title      string
	Points     decimal.Decimal
	Target     int
	Max        int
	Reward     decimal.Decimal
	IsRoutine  bool
	IsOptional bool
	IsCritical bool
}

func (d TaskDefinition) toTask() (storage.Task, error) {
	title, err := normalizeTitle(d.Title)
	if err != nil {
		return storage.Task{}, err
	}
	target := d.Target
	if target == 0 {
		target = 1
	}
	maxCount := d.Max
	if maxCount == 0 {
		maxCount = target
	}
	t := storage.Task{
		Title:      title,
		Points:     d.Points,
		Target:     target,
		Max:        maxCount,
		Reward:     d.Reward,
		IsRoutine:  d.IsRoutine,
		IsOptional: d.IsOptional,
		IsCritical: d.IsCritical,
	}
	if err := validateTask(t); err != nil {
		return storage.Task{}, err
	}
	return t, nil
}

func validateTask(t storage.Task) error {
	switch {
	case t.Title == "":
		return ValidationError{Field: "title", Reason: "title is required"}
	case t.Points.IsNegative():
		return ValidationError{Field: "points", Reason: "must be >= 0"}
	case t.Reward.IsNegative():
		return ValidationError{Field: "reward", Reason: "must be >= 0"}
	case t.Target < 1:
		return ValidationError{Field: "target", Reason: "must be >= 1"}
	case t.Max < t.Target:
		return ValidationError{Field: "max", Reason: "must be >= target"}
	case t.CompletedCount < 0:
		return ValidationError{Field: "completed count", Reason: "must be >= 0"}
	case t.CompletedCount > t.Max:
		return ValidationError{Field: "completed count", Reason: "must be <= max"}
	}
	return nil
}

// Create adds a task to the day identified by dayID, or to today when dayID
// is empty. The task is appended after the day's existing tasks.
func (s *Service) Create(ctx context.Context, def TaskDefinition, dayID string) (*Result, error) {
	t, err := def.toTask()
	if err != nil {
		s.logFailure("create", err)
		return nil, err
	}

	totals, err := s.mutate(ctx, "create", func(r repos) (*DayTotals, error) {
		var (
			day *storage.Day
			err error
		)
		if dayID == "" {
			day, err = s.ensureDay(ctx, r, s.Today())
		} else {
			day, err = getDay(ctx, r.days, dayID)
		}
		if err != nil {
			return nil, err
		}

		existing, err := r.tasks.ListByDay(ctx, day.ID)
		if err != nil {
			return nil, err
		}
		id := day.ID
		t.DayID = &id
		t.Position = nextPosition(positions(existing), len(existing))
		t.CreatedAt = s.clock.Now().UTC()
		if err := r.tasks.Insert(ctx, &t); err != nil {
			return nil, err
		}
		return recompute(ctx, r, day.ID)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Task: t, Changed: true, Totals: totals}, nil
}

// CreateTemplate adds a recurring definition that EnsureTasks copies onto
// every requested day.
func (s *Service) CreateTemplate(ctx context.Context, def TaskDefinition) (*Result, error) {
	t, err := def.toTask()
	if err != nil {
		s.logFailure("create template", err)
		return nil, err
	}
	t.IsTemplate = true

	_, err = s.mutate(ctx, "create template", func(r repos) (*DayTotals, error) {
		templates, err := r.tasks.ListTemplates(ctx, false)
		if err != nil {
			return nil, err
		}
		t.Position = nextPosition(positions(templates), len(templates))
		t.CreatedAt = s.clock.Now().UTC()
		return nil, r.tasks.Insert(ctx, &t)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Task: t, Changed: true}, nil
}

// ListTemplates returns the active templates in position order.
func (s *Service) ListTemplates(ctx context.Context) ([]storage.Task, error) {
	return s.tasks.ListTemplates(ctx, false)
}

// Duplicate copies a task onto the end of the same day with its completions
// reset. The copy is a standalone task: it does not inherit the source
// template link, which is unique per day.
func (s *Service) Duplicate(ctx context.Context, id string) (*Result, error) {
	var dup storage.Task
	totals, err := s.mutate(ctx, "duplicate", func(r repos) (*DayTotals, error) {
		src, err := getTask(ctx, r.tasks, id)
		if err != nil {
			return nil, err
		}

		dup = *src
		dup.ID = ""
		dup.CreatedAt = s.clock.Now().UTC()
		dup.CompletedCount = 0
		dup.SourceTemplateID = nil
		dup.ArchivedAt = nil

		var siblings []storage.Task
		if src.IsTemplate {
			siblings, err = r.tasks.ListTemplates(ctx, false)
		} else {
			siblings, err = r.tasks.ListByDay(ctx, dayIDOf(src))
		}
		if err != nil {
			return nil, err
		}
		dup.Position = nextPosition(positions(siblings), len(siblings))
		if err := r.tasks.Insert(ctx, &dup); err != nil {
			return nil, err
		}
		if src.IsTemplate {
			return nil, nil
		}
		return recompute(ctx, r, dayIDOf(src))
	})
	if err != nil {
		return nil, err
	}
	return &Result{Task: dup, Changed: true, Totals: totals}, nil
}
