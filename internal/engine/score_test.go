package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func routine(points string, completed, target, max int, reward string) storage.Task {
	return storage.Task{
		Title:          "routine",
		Points:         dec(points),
		CompletedCount: completed,
		Target:         target,
		Max:            max,
		Reward:         dec(reward),
		IsRoutine:      true,
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestComputeStreakBonus(t *testing.T) {
	assertDec(t, "0", ComputeStreakBonus(0))
	assertDec(t, "0", ComputeStreakBonus(1))
	assertDec(t, "0.1", ComputeStreakBonus(2))
	assertDec(t, "0.5", ComputeStreakBonus(6))
	assertDec(t, "1", ComputeStreakBonus(11))
	assertDec(t, "1", ComputeStreakBonus(40))
}

func TestComputeBonus(t *testing.T) {
	oneShot := routine("10", 5, 5, 7, "0")
	oneShot.IsRoutine = false
	assertDec(t, "0", ComputeBonus(oneShot, 10))

	assertDec(t, "0", ComputeBonus(routine("10", 4, 5, 7, "0"), 1))
	assertDec(t, "0.2", ComputeBonus(routine("10", 5, 5, 7, "0"), 1))
	assertDec(t, "0.25", ComputeBonus(routine("10", 6, 5, 7, "0"), 0))
	assertDec(t, "0.3", ComputeBonus(routine("10", 7, 5, 7, "0"), 1))
	// Streak is added below target too, and the sum is not capped.
	assertDec(t, "0.3", ComputeBonus(routine("10", 0, 5, 7, "0"), 4))
	assertDec(t, "1.3", ComputeBonus(routine("10", 7, 5, 7, "0"), 20))
	// No overshoot component when max == target.
	assertDec(t, "0.2", ComputeBonus(routine("10", 5, 5, 5, "0"), 1))
}

func TestComputePointsScenarios(t *testing.T) {
	a := routine("10", 5, 5, 7, "2")
	assertDec(t, "14", ComputePoints(a, ComputeBonus(a, 0)))

	b := routine("10", 6, 5, 7, "2")
	assertDec(t, "17", ComputePoints(b, ComputeBonus(b, 0)))
}

func TestComputePointsRoutinePartialCredit(t *testing.T) {
	zero := routine("10", 0, 5, 7, "2")
	assertDec(t, "2", ComputePoints(zero, ComputeBonus(zero, 0)))
	assertDec(t, "2", ComputePoints(zero, ComputeBonus(zero, 6)))

	half := routine("10", 2, 4, 4, "0")
	assertDec(t, "5", ComputePoints(half, decimal.Zero))

	// Ratio never exceeds max/target.
	capped := routine("10", 4, 2, 4, "0")
	assertDec(t, "20", ComputePoints(capped, decimal.Zero))
}

func TestComputePointsOneShot(t *testing.T) {
	task := storage.Task{Points: dec("3.5"), Target: 2, Max: 3, Reward: dec("1")}

	for _, completed := range []int{0, 1} {
		task.CompletedCount = completed
		assertDec(t, "1", ComputePoints(task, decimal.Zero))
		assertDec(t, "1", ComputePoints(task, dec("0.5")))
	}

	for _, completed := range []int{2, 3} {
		task.CompletedCount = completed
		assertDec(t, "4.5", ComputePoints(task, decimal.Zero))
		// points*(1+bonus)+reward, unscaled by completions.
		assertDec(t, "6.25", ComputePoints(task, dec("0.5")))
	}
}

func TestComputeAggregateUsesBasePoints(t *testing.T) {
	tasks := []storage.Task{
		routine("0.1", 3, 5, 7, "9"),
		routine("0.1", 7, 5, 7, "9"),
		{Points: dec("2.5"), CompletedCount: 1, Target: 1, Max: 1},
	}
	// 0.3 + 0.7 + 2.5 = 3.5 -> 3
	assert.Equal(t, 3, ComputeAggregate(tasks))
	assert.Equal(t, 0, ComputeAggregate(nil))

	many := make([]storage.Task, 10)
	for i := range many {
		many[i] = storage.Task{Points: dec("0.1"), CompletedCount: 1, Target: 1, Max: 1}
	}
	assert.Equal(t, 1, ComputeAggregate(many))
}

func TestComputeProgress(t *testing.T) {
	assert.Equal(t, 0.0, ComputeProgress(5, 0))
	assert.Equal(t, 0.0, ComputeProgress(5, -3))
	assert.InDelta(t, 0.6, ComputeProgress(6, 10), 1e-9)
	assert.Equal(t, 1.0, ComputeProgress(12, 10))
	assert.Equal(t, 0.0, ComputeProgress(0, 10))
}

func TestStreakFromRuns(t *testing.T) {
	day := mustDate(t, "2026-03-10")
	runs := []storage.TemplateRun{
		{Date: mustDate(t, "2026-03-09"), CompletedCount: 2, Target: 2},
		{Date: mustDate(t, "2026-03-08"), CompletedCount: 3, Target: 2},
		{Date: mustDate(t, "2026-03-07"), CompletedCount: 1, Target: 2},
		{Date: mustDate(t, "2026-03-06"), CompletedCount: 2, Target: 2},
	}
	assert.Equal(t, 3, streakFromRuns(day, runs))
	assert.Equal(t, 1, streakFromRuns(day, nil))

	gap := []storage.TemplateRun{{Date: mustDate(t, "2026-03-08"), CompletedCount: 2, Target: 2}}
	assert.Equal(t, 1, streakFromRuns(day, gap))
}

func TestMoveOrder(t *testing.T) {
	cases := []struct {
		name string
		n    int
		from []int
		to   int
		want []int
	}{
		{"first to before last", 4, []int{0}, 3, []int{1, 2, 0, 3}},
		{"first to end", 4, []int{0}, 4, []int{1, 2, 3, 0}},
		{"last to front", 4, []int{3}, 0, []int{3, 0, 1, 2}},
		{"two to middle", 5, []int{4, 0}, 2, []int{1, 0, 4, 2, 3}},
		{"in place", 3, []int{1}, 1, []int{0, 1, 2}},
		{"in place after", 3, []int{1}, 2, []int{0, 1, 2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := moveOrder(tc.n, tc.from, tc.to)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	for _, bad := range []struct {
		from []int
		to   int
	}{
		{nil, 0},
		{[]int{0}, 4},
		{[]int{3}, 0},
		{[]int{1, 1}, 0},
		{[]int{-1}, 0},
	} {
		_, err := moveOrder(3, bad.from, bad.to)
		assert.True(t, IsValidation(err), "from=%v to=%d", bad.from, bad.to)
	}
}
