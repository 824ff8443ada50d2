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

const dateLayout = "2006-01-02"

// DateKey formats t as the calendar date it falls on in its own location.
func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDateKey parses a stored date into midnight UTC of that date.
func ParseDateKey(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

type DayRepo struct {
	db DBTX
}

func NewDayRepo(db DBTX) *DayRepo {
	return &DayRepo{db: db}
}

func (r *DayRepo) Get(ctx context.Context, id string) (*Day, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, date, target, points FROM days WHERE id = ?`, id)
	return scanDayRow(row)
}

func (r *DayRepo) GetByDate(ctx context.Context, date time.Time) (*Day, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, date, target, points FROM days WHERE date = ?`, DateKey(date))
	return scanDayRow(row)
}

// Insert stores d, assigning an ID when unset. d.Date is normalized to
// midnight UTC of its calendar date.
func (r *DayRepo) Insert(ctx context.Context, d *Day) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	key := DateKey(d.Date)
	_, err := r.db.ExecContext(ctx, `INSERT INTO days (id, date, target, points) VALUES (?, ?, ?, ?)`,
		d.ID, key, d.Target, d.Points)
	if err != nil {
		return fmt.Errorf("day insert: %w", err)
	}
	d.Date, _ = ParseDateKey(key)
	return nil
}

func (r *DayRepo) UpdatePoints(ctx context.Context, id string, points decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE days SET points = ? WHERE id = ?`, points, id)
	if err != nil {
		return fmt.Errorf("day update points: %w", err)
	}
	return expectOne(res, "day update points")
}

func (r *DayRepo) UpdateTarget(ctx context.Context, id string, target int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE days SET target = ? WHERE id = ?`, target, id)
	if err != nil {
		return fmt.Errorf("day update target: %w", err)
	}
	return expectOne(res, "day update target")
}

// ListRange returns days with from <= date <= to, oldest first.
func (r *DayRepo) ListRange(ctx context.Context, from, to time.Time) ([]Day, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, target, points
		FROM days
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC
	`, DateKey(from), DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("day list: %w", err)
	}
	defer rows.Close()

	var out []Day
	for rows.Next() {
		d, err := scanDayRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("day list rows: %w", err)
	}
	return out, nil
}

func scanDayRow(row scanner) (*Day, error) {
	var (
		d   Day
		key string
	)
	if err := row.Scan(&d.ID, &key, &d.Target, &d.Points); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("day scan: %w", err)
	}
	date, err := ParseDateKey(key)
	if err != nil {
		return nil, err
	}
	d.Date = date
	return &d, nil
}
