package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) (*TaskRepo, *DayRepo) {
	t.Helper()
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "tally.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	// Migrate is safe to run again on an existing schema.
	require.NoError(t, Migrate(context.Background(), db))
	return NewTaskRepo(db), NewDayRepo(db)
}

func insertDay(t *testing.T, days *DayRepo, key string) *Day {
	t.Helper()
	date, err := ParseDateKey(key)
	require.NoError(t, err)
	d := &Day{Date: date, Target: 5, Points: decimal.Zero}
	require.NoError(t, days.Insert(context.Background(), d))
	return d
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("east", 10*60*60)
	assert.Equal(t, "2026-03-10", DateKey(time.Date(2026, 3, 10, 23, 59, 0, 0, loc)))

	d, err := ParseDateKey("2026-03-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDateKey("10/03/2026")
	assert.Error(t, err)
}

func TestDayRepo(t *testing.T) {
	ctx := context.Background()
	_, days := openTestDB(t)

	d := insertDay(t, days, "2026-03-10")
	assert.NotEmpty(t, d.ID)

	got, err := days.GetByDate(ctx, d.Date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, 5, got.Target)

	require.NoError(t, days.UpdatePoints(ctx, d.ID, decimal.RequireFromString("12")))
	require.NoError(t, days.UpdateTarget(ctx, d.ID, 3))
	got, err = days.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12").Equal(got.Points))
	assert.Equal(t, 3, got.Target)

	missing, err := days.Get(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = days.UpdatePoints(ctx, "nope", decimal.Zero)
	assert.ErrorIs(t, err, ErrNoRowsAffected)

	// Dates are unique.
	dup := &Day{Date: d.Date, Points: decimal.Zero}
	assert.Error(t, days.Insert(ctx, dup))

	insertDay(t, days, "2026-03-08")
	insertDay(t, days, "2026-03-12")
	from, _ := ParseDateKey("2026-03-08")
	to, _ := ParseDateKey("2026-03-10")
	list, err := days.ListRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-08", DateKey(list[0].Date))
	assert.Equal(t, "2026-03-10", DateKey(list[1].Date))
}

func TestTaskRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	tasks, days := openTestDB(t)
	d := insertDay(t, days, "2026-03-10")

	in := &Task{
		DayID:      &d.ID,
		Title:      "water",
		Points:     decimal.RequireFromString("1.25"),
		Target:     2,
		Max:        4,
		Reward:     decimal.RequireFromString("0.5"),
		IsRoutine:  true,
		IsCritical: true,
		Position:   3,
	}
	require.NoError(t, tasks.Insert(ctx, in))
	assert.NotEmpty(t, in.ID)
	assert.False(t, in.CreatedAt.IsZero())

	got, err := tasks.Get(ctx, in.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "water", got.Title)
	assert.True(t, in.Points.Equal(got.Points))
	assert.True(t, in.Reward.Equal(got.Reward))
	assert.Equal(t, 2, got.Target)
	assert.Equal(t, 4, got.Max)
	assert.True(t, got.IsRoutine)
	assert.False(t, got.IsOptional)
	assert.True(t, got.IsCritical)
	assert.False(t, got.IsTemplate)
	assert.Equal(t, 3, got.Position)
	require.NotNil(t, got.DayID)
	assert.Equal(t, d.ID, *got.DayID)
	assert.Nil(t, got.SourceTemplateID)
	assert.Nil(t, got.ArchivedAt)

	require.NoError(t, tasks.UpdateCompletedCount(ctx, in.ID, 4))
	got.Title = "sparkling water"
	got.CompletedCount = 4
	got.Position = 0
	require.NoError(t, tasks.Update(ctx, got))
	got, err = tasks.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, "sparkling water", got.Title)
	assert.Equal(t, 4, got.CompletedCount)
	assert.Equal(t, 0, got.Position)

	// The schema rejects a count above max.
	assert.Error(t, tasks.UpdateCompletedCount(ctx, in.ID, 5))

	require.NoError(t, tasks.Delete(ctx, in.ID))
	got, err = tasks.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, tasks.Delete(ctx, in.ID), ErrNoRowsAffected)
}

func TestTaskRepoTemplatesAndRuns(t *testing.T) {
	ctx := context.Background()
	tasks, days := openTestDB(t)

	tpl := &Task{Title: "gym", Points: decimal.NewFromInt(10), Target: 1, Max: 1, IsTemplate: true}
	require.NoError(t, tasks.Insert(ctx, tpl))
	old := &Task{Title: "old", Points: decimal.Zero, Target: 1, Max: 1, IsTemplate: true, Position: 1}
	require.NoError(t, tasks.Insert(ctx, old))
	require.NoError(t, tasks.Archive(ctx, old.ID, time.Now().UTC()))

	active, err := tasks.ListTemplates(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, tpl.ID, active[0].ID)

	all, err := tasks.ListTemplates(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[1].ArchivedAt)

	counts := map[string]int{"2026-03-07": 1, "2026-03-08": 0, "2026-03-09": 1, "2026-03-10": 0}
	var dayIDs []string
	for _, key := range []string{"2026-03-07", "2026-03-08", "2026-03-09", "2026-03-10"} {
		d := insertDay(t, days, key)
		dayIDs = append(dayIDs, d.ID)
		inst := &Task{
			DayID:            &d.ID,
			SourceTemplateID: &tpl.ID,
			Title:            "gym",
			Points:           tpl.Points,
			CompletedCount:   counts[key],
			Target:           1,
			Max:              1,
			Reward:           decimal.Zero,
		}
		require.NoError(t, tasks.Insert(ctx, inst))
	}

	found, err := tasks.FindBySource(ctx, dayIDs[1], tpl.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 0, found.CompletedCount)

	// One instance per (day, template).
	extra := &Task{DayID: &dayIDs[1], SourceTemplateID: &tpl.ID, Title: "gym", Points: decimal.Zero, Reward: decimal.Zero, Target: 1, Max: 1}
	assert.Error(t, tasks.Insert(ctx, extra))

	before, _ := ParseDateKey("2026-03-10")
	runs, err := tasks.ListRunsBefore(ctx, tpl.ID, before)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "2026-03-09", DateKey(runs[0].Date))
	assert.True(t, runs[0].Met())
	assert.False(t, runs[1].Met())
	assert.True(t, runs[2].Met())

	n, err := tasks.ResetCompletionsByDay(ctx, dayIDs[0])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = tasks.DeleteByDay(ctx, dayIDs[2])
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	left, err := tasks.ListByDay(ctx, dayIDs[2])
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestListByDayOrdersByPosition(t *testing.T) {
	ctx := context.Background()
	tasks, days := openTestDB(t)
	d := insertDay(t, days, "2026-03-10")

	for i, title := range []string{"c", "a", "b"} {
		pos := []int{2, 0, 1}[i]
		task := &Task{DayID: &d.ID, Title: title, Points: decimal.Zero, Reward: decimal.Zero, Target: 1, Max: 1, Position: pos}
		require.NoError(t, tasks.Insert(ctx, task))
	}
	// Templates never appear in a day listing.
	require.NoError(t, tasks.Insert(ctx, &Task{Title: "tpl", Points: decimal.Zero, Reward: decimal.Zero, Target: 1, Max: 1, IsTemplate: true}))

	list, err := tasks.ListByDay(ctx, d.ID)
	require.NoError(t, err)
	var got []string
	for _, task := range list {
		got = append(got, task.Title)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)

	require.NoError(t, tasks.UpdatePosition(ctx, list[0].ID, 5))
	list, err = tasks.ListByDay(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", list[2].Title)
}
