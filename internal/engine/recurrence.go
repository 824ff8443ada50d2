package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// EnsureDay returns the day for date, creating it with the default target
// and zero points when it does not exist yet.
func (s *Service) EnsureDay(ctx context.Context, date time.Time) (*storage.Day, error) {
	var day *storage.Day
	_, err := s.mutate(ctx, "ensure day", func(r repos) (*DayTotals, error) {
		var err error
		day, err = s.ensureDay(ctx, r, date)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *Service) ensureDay(ctx context.Context, r repos, date time.Time) (*storage.Day, error) {
	date = StartOfDay(date)
	day, err := r.days.GetByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if day != nil {
		return day, nil
	}
	day = &storage.Day{
		Date:   date,
		Target: s.defaultDayTarget,
		Points: decimal.Zero,
	}
	if err := r.days.Insert(ctx, day); err != nil {
		return nil, err
	}
	s.log.Debug("day created", zap.String("day", day.ID), zap.String("date", storage.DateKey(day.Date)))
	return day, nil
}

// EnsureTasks materializes an instance of every active template on day unless
// one already exists for that template. Existing instances are left as they
// are, so running it again never duplicates or overwrites anything.
func (s *Service) EnsureTasks(ctx context.Context, day *storage.Day) (int, error) {
	if day == nil {
		err := NotFoundError{Kind: "day"}
		s.logFailure("ensure tasks", err)
		return 0, err
	}
	created := 0
	_, err := s.mutate(ctx, "ensure tasks", func(r repos) (*DayTotals, error) {
		var err error
		created, err = s.ensureTasks(ctx, r, day.ID)
		if err != nil || created == 0 {
			return nil, err
		}
		return recompute(ctx, r, day.ID)
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (s *Service) ensureTasks(ctx context.Context, r repos, dayID string) (int, error) {
	if _, err := getDay(ctx, r.days, dayID); err != nil {
		return 0, err
	}
	templates, err := r.tasks.ListTemplates(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		return 0, nil
	}
	existing, err := r.tasks.ListByDay(ctx, dayID)
	if err != nil {
		return 0, err
	}
	taken := positions(existing)

	created := 0
	for _, tpl := range templates {
		found, err := r.tasks.FindBySource(ctx, dayID, tpl.ID)
		if err != nil {
			return created, err
		}
		if found != nil {
			continue
		}

		// Keep the template's slot unless a task on this day already holds it.
		pos := tpl.Position
		if taken[pos] {
			pos = nextPosition(taken, len(taken))
		}
		taken[pos] = true

		inst := materialize(tpl, dayID, pos)
		inst.CreatedAt = s.clock.Now().UTC()
		if err := r.tasks.Insert(ctx, &inst); err != nil {
			return created, err
		}
		created++
		s.log.Debug("task materialized",
			zap.String("day", dayID),
			zap.String("template", tpl.ID),
			zap.String("task", inst.ID))
	}
	return created, nil
}

func materialize(tpl storage.Task, dayID string, position int) storage.Task {
	day := dayID
	src := tpl.ID
	return storage.Task{
		DayID:            &day,
		SourceTemplateID: &src,
		Title:            tpl.Title,
		Points:           tpl.Points,
		CompletedCount:   0,
		Target:           tpl.Target,
		Max:              tpl.Max,
		Reward:           tpl.Reward,
		IsRoutine:        tpl.IsRoutine,
		IsOptional:       tpl.IsOptional,
		IsCritical:       tpl.IsCritical,
		IsTemplate:       false,
		Position:         position,
	}
}

// TasksForDate ensures the day and its template instances exist and returns
// the day's tasks ordered by position.
func (s *Service) TasksForDate(ctx context.Context, date time.Time) (*storage.Day, []storage.Task, error) {
	var (
		day   *storage.Day
		tasks []storage.Task
	)
	_, err := s.mutate(ctx, "tasks for date", func(r repos) (*DayTotals, error) {
		var err error
		day, err = s.ensureDay(ctx, r, date)
		if err != nil {
			return nil, err
		}
		created, err := s.ensureTasks(ctx, r, day.ID)
		if err != nil {
			return nil, err
		}
		var totals *DayTotals
		if created > 0 {
			totals, err = recompute(ctx, r, day.ID)
			if err != nil {
				return nil, err
			}
		}
		tasks, err = r.tasks.ListByDay(ctx, day.ID)
		if err != nil {
			return nil, err
		}
		return totals, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return day, tasks, nil
}
