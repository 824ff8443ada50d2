package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// DefaultDayTarget is the per-task day goal used when none is configured.
const DefaultDayTarget = 5

// Service is the single entry point for reading and mutating tasks and days.
// Mutations are serialized; each one commits its task change and the owning
// day's recomputed points in a single transaction.
type Service struct {
	db    *sql.DB
	tasks *storage.TaskRepo
	days  *storage.DayRepo

	clock            Clock
	log              *zap.Logger
	defaultDayTarget int
	bus              *eventBus

	mu sync.Mutex
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithDefaultDayTarget sets the target given to lazily created days.
func WithDefaultDayTarget(target int) Option {
	return func(s *Service) {
		if target >= 0 {
			s.defaultDayTarget = target
		}
	}
}

func NewService(db *sql.DB, opts ...Option) *Service {
	s := &Service{
		db:               db,
		tasks:            storage.NewTaskRepo(db),
		days:             storage.NewDayRepo(db),
		clock:            systemClock{},
		log:              zap.NewNop(),
		defaultDayTarget: DefaultDayTarget,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.bus = newEventBus(s.log)
	return s
}

// DayTotals is the settled state of a day after a mutation.
type DayTotals struct {
	DayID     string
	Points    int
	Progress  float64
	TaskCount int
}

// Result describes the outcome of a task mutation. Totals is nil when the
// day was not touched (templates, no-op increments).
type Result struct {
	Task    storage.Task
	Changed bool
	Totals  *DayTotals
}

// Subscribe returns a channel of events for this Service and a cancel func
// that closes it.
func (s *Service) Subscribe(buffer int) (<-chan Event, func()) {
	return s.bus.subscribe(buffer)
}

// Today returns the start of the current day per the service clock.
func (s *Service) Today() time.Time {
	return StartOfDay(s.clock.Now())
}

type repos struct {
	tasks *storage.TaskRepo
	days  *storage.DayRepo
}

// mutate runs fn in a transaction under the writer lock and publishes the
// returned totals once the transaction has committed.
func (s *Service) mutate(ctx context.Context, op string, fn func(r repos) (*DayTotals, error)) (*DayTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var totals *DayTotals
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		totals, err = fn(repos{tasks: storage.NewTaskRepo(tx), days: storage.NewDayRepo(tx)})
		return err
	})
	if err != nil {
		s.logFailure(op, err)
		return nil, err
	}
	if totals != nil {
		s.log.Debug("day recomputed",
			zap.String("op", op),
			zap.String("day", totals.DayID),
			zap.Int("points", totals.Points),
			zap.Float64("progress", totals.Progress))
	}
	s.bus.publishTotals(totals)
	return totals, nil
}

func (s *Service) logFailure(op string, err error) {
	if IsValidation(err) || IsNotFound(err) {
		s.log.Debug("mutation rejected", zap.String("op", op), zap.Error(err))
		return
	}
	if errors.Is(err, context.Canceled) {
		s.log.Warn("mutation canceled", zap.String("op", op))
		return
	}
	s.log.Error("storage failure", zap.String("op", op), zap.Error(err))
}

// recompute stores the aggregate for dayID and returns the settled totals.
func recompute(ctx context.Context, r repos, dayID string) (*DayTotals, error) {
	day, err := r.days.Get(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return nil, NotFoundError{Kind: "day", ID: dayID}
	}
	tasks, err := r.tasks.ListByDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	total := ComputeAggregate(tasks)
	if err := r.days.UpdatePoints(ctx, dayID, decimalFromInt(total)); err != nil {
		return nil, err
	}
	return &DayTotals{
		DayID:     dayID,
		Points:    total,
		Progress:  ComputeProgress(total, day.Target*len(tasks)),
		TaskCount: len(tasks),
	}, nil
}

func getTask(ctx context.Context, r *storage.TaskRepo, id string) (*storage.Task, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	return t, nil
}

func getDay(ctx context.Context, r *storage.DayRepo, id string) (*storage.Day, error) {
	d, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, NotFoundError{Kind: "day", ID: id}
	}
	return d, nil
}

// Task returns one task by id.
func (s *Service) Task(ctx context.Context, id string) (*storage.Task, error) {
	return getTask(ctx, s.tasks, id)
}

// Day returns one day by id.
func (s *Service) Day(ctx context.Context, id string) (*storage.Day, error) {
	return getDay(ctx, s.days, id)
}

// Tasks returns the day's instances ordered by position without materializing.
func (s *Service) Tasks(ctx context.Context, dayID string) ([]storage.Task, error) {
	if _, err := getDay(ctx, s.days, dayID); err != nil {
		return nil, err
	}
	return s.tasks.ListByDay(ctx, dayID)
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", ValidationError{Field: "title", Reason: "title is required"}
	}
	return t, nil
}

func dayIDOf(t *storage.Task) string {
	if t.DayID == nil {
		return ""
	}
	return *t.DayID
}

func nextPosition(taken map[int]bool, start int) int {
	p := start
	for taken[p] {
		p++
	}
	return p
}

func positions(tasks []storage.Task) map[int]bool {
	taken := make(map[int]bool, len(tasks))
	for i := range tasks {
		taken[tasks[i].Position] = true
	}
	return taken
}
