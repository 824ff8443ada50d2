package root

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/claudebuildsapps/points-sub001/internal/config"
	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/logging"
	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

func openService(ctx context.Context) (*engine.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flagDB != "" {
		cfg.DatabasePath = flagDB
	}

	logger, err := logging.New(cfg.LogLevel, flagVerbose)
	if err != nil {
		return nil, nil, err
	}

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
		_ = logger.Sync()
	}
	svc := engine.NewService(db,
		engine.WithLogger(logger),
		engine.WithDefaultDayTarget(cfg.DefaultDayTarget),
	)
	return svc, cleanup, nil
}

// selectedDate returns --date or today in local time.
func selectedDate(svc *engine.Service) (time.Time, error) {
	if flagDate == "" {
		return svc.Today(), nil
	}
	d, err := time.ParseInLocation("2006-01-02", flagDate, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", flagDate)
	}
	return d, nil
}

// resolveTask maps a 1-based list index or an id prefix to a task on the
// selected day. Template id prefixes are accepted too.
func resolveTask(ctx context.Context, svc *engine.Service, ref string) (*storage.Task, error) {
	date, err := selectedDate(svc)
	if err != nil {
		return nil, err
	}
	_, tasks, err := svc.TasksForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(tasks) {
			return nil, fmt.Errorf("no task #%d on %s", n, date.Format("2006-01-02"))
		}
		return &tasks[n-1], nil
	}

	templates, err := svc.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}
	var matches []storage.Task
	for _, t := range append(tasks, templates...) {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no task matches %q", ref)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
	}
}

func currentDay(ctx context.Context, svc *engine.Service) (*storage.Day, error) {
	date, err := selectedDate(svc)
	if err != nil {
		return nil, err
	}
	return svc.EnsureDay(ctx, date)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
