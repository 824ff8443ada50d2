package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task is either a template (IsTemplate, no day) or a day-bound instance.
type Task struct {
	ID               string
	DayID            *string
	SourceTemplateID *string
	Title            string
	Points           decimal.Decimal
	CompletedCount   int
	Target           int
	Max              int
	Reward           decimal.Decimal
	IsRoutine        bool
	IsOptional       bool
	IsCritical       bool
	IsTemplate       bool
	Position         int
	CreatedAt        time.Time
	ArchivedAt       *time.Time // templates only
}

// Day is one calendar date. Points is a cached aggregate of the day's tasks.
type Day struct {
	ID     string
	Date   time.Time
	Target int
	Points decimal.Decimal
}

// TemplateRun is one materialized instance of a template on a given date.
type TemplateRun struct {
	Date           time.Time
	CompletedCount int
	Target         int
}

// Met reports whether the run reached its completion target.
func (r TemplateRun) Met() bool {
	return r.CompletedCount >= r.Target
}
