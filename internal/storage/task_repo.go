package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

const taskColumns = `id, day_id, source_template_id, title, points, completed_count, target, max_count, reward,
	is_routine, is_optional, is_critical, is_template, position, created_at, archived_at`

// Insert stores t, assigning an ID when unset. A zero CreatedAt falls back
// to the wall clock; the engine always sets it from its own clock.
func (r *TaskRepo) Insert(ctx context.Context, t *Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, day_id, source_template_id, title,
			points, completed_count, target, max_count, reward,
			is_routine, is_optional, is_critical, is_template,
			position, created_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.DayID, t.SourceTemplateID, t.Title,
		t.Points, t.CompletedCount, t.Target, t.Max, t.Reward,
		boolToInt(t.IsRoutine), boolToInt(t.IsOptional), boolToInt(t.IsCritical), boolToInt(t.IsTemplate),
		t.Position, t.CreatedAt, t.ArchivedAt)
	if err != nil {
		return fmt.Errorf("task insert: %w", err)
	}
	return nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTaskRow(row)
}

// ListByDay returns the day's instances ordered by position.
func (r *TaskRepo) ListByDay(ctx context.Context, dayID string) ([]Task, error) {
	return r.list(ctx, "task list by day", `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE day_id = ? AND is_template = 0
		ORDER BY position ASC, created_at ASC
	`, dayID)
}

// ListTemplates returns templates ordered by position. Archived templates are
// included only when includeArchived is set.
func (r *TaskRepo) ListTemplates(ctx context.Context, includeArchived bool) ([]Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks WHERE is_template = 1`
	if !includeArchived {
		q += ` AND archived_at IS NULL`
	}
	q += ` ORDER BY position ASC, created_at ASC`
	return r.list(ctx, "template list", q)
}

// FindBySource returns the instance materialized from templateID on dayID, if any.
func (r *TaskRepo) FindBySource(ctx context.Context, dayID, templateID string) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE day_id = ? AND source_template_id = ?
		LIMIT 1
	`, dayID, templateID)
	return scanTaskRow(row)
}

// ListRunsBefore returns the template's instances on dates strictly before
// date, newest first.
func (r *TaskRepo) ListRunsBefore(ctx context.Context, templateID string, date time.Time) ([]TemplateRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.date, t.completed_count, t.target
		FROM tasks t
		JOIN days d ON d.id = t.day_id
		WHERE t.source_template_id = ? AND d.date < ?
		ORDER BY d.date DESC
	`, templateID, DateKey(date))
	if err != nil {
		return nil, fmt.Errorf("template runs: %w", err)
	}
	defer rows.Close()

	var out []TemplateRun
	for rows.Next() {
		var (
			key string
			run TemplateRun
		)
		if err := rows.Scan(&key, &run.CompletedCount, &run.Target); err != nil {
			return nil, fmt.Errorf("template runs scan: %w", err)
		}
		d, err := ParseDateKey(key)
		if err != nil {
			return nil, err
		}
		run.Date = d
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("template runs rows: %w", err)
	}
	return out, nil
}

// Update writes every mutable column of t.
func (r *TaskRepo) Update(ctx context.Context, t *Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, points = ?, completed_count = ?, target = ?, max_count = ?, reward = ?,
			is_routine = ?, is_optional = ?, is_critical = ?, position = ?
		WHERE id = ?
	`, t.Title, t.Points, t.CompletedCount, t.Target, t.Max, t.Reward,
		boolToInt(t.IsRoutine), boolToInt(t.IsOptional), boolToInt(t.IsCritical), t.Position, t.ID)
	if err != nil {
		return fmt.Errorf("task update: %w", err)
	}
	return expectOne(res, "task update")
}

func (r *TaskRepo) UpdateCompletedCount(ctx context.Context, id string, n int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET completed_count = ? WHERE id = ?`, n, id)
	if err != nil {
		return fmt.Errorf("task update completed count: %w", err)
	}
	return expectOne(res, "task update completed count")
}

func (r *TaskRepo) UpdatePosition(ctx context.Context, id string, position int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET position = ? WHERE id = ?`, position, id)
	if err != nil {
		return fmt.Errorf("task update position: %w", err)
	}
	return expectOne(res, "task update position")
}

func (r *TaskRepo) Archive(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET archived_at = ? WHERE id = ? AND is_template = 1`, at, id)
	if err != nil {
		return fmt.Errorf("template archive: %w", err)
	}
	return expectOne(res, "template archive")
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return expectOne(res, "task delete")
}

// DeleteByDay removes every instance of the day and returns how many were removed.
func (r *TaskRepo) DeleteByDay(ctx context.Context, dayID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE day_id = ? AND is_template = 0`, dayID)
	if err != nil {
		return 0, fmt.Errorf("task delete by day: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("task delete by day rows: %w", err)
	}
	return n, nil
}

func (r *TaskRepo) ResetCompletionsByDay(ctx context.Context, dayID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET completed_count = 0 WHERE day_id = ? AND is_template = 0`, dayID)
	if err != nil {
		return 0, fmt.Errorf("task reset completions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("task reset completions rows: %w", err)
	}
	return n, nil
}

func (r *TaskRepo) list(ctx context.Context, op string, query string, args ...any) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s rows: %w", op, err)
	}
	return out, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// ErrNoRowsAffected is returned when an update or delete matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNoRowsAffected)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t          Task
		dayID      sql.NullString
		sourceID   sql.NullString
		points     decimal.Decimal
		reward     decimal.Decimal
		isRoutine  int
		isOptional int
		isCritical int
		isTemplate int
		archivedAt sql.NullTime
	)

	if err := row.Scan(
		&t.ID, &dayID, &sourceID, &t.Title, &points, &t.CompletedCount, &t.Target, &t.Max, &reward,
		&isRoutine, &isOptional, &isCritical, &isTemplate, &t.Position, &t.CreatedAt, &archivedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	if dayID.Valid {
		v := dayID.String
		t.DayID = &v
	}
	if sourceID.Valid {
		v := sourceID.String
		t.SourceTemplateID = &v
	}
	if archivedAt.Valid {
		v := archivedAt.Time
		t.ArchivedAt = &v
	}
	t.Points = points
	t.Reward = reward
	t.IsRoutine = isRoutine != 0
	t.IsOptional = isOptional != 0
	t.IsCritical = isCritical != 0
	t.IsTemplate = isTemplate != 0
	return &t, nil
}
