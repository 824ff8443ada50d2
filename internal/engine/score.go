package engine

import (
	"github.com/shopspring/decimal"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

var (
	one = decimal.NewFromInt(1)

	// StreakBonusStep is earned per consecutive day beyond the first.
	StreakBonusStep = decimal.RequireFromString("0.10")
	// StreakBonusCap caps the streak component only.
	StreakBonusCap = decimal.NewFromInt(1)
	// TargetBonus is added once a routine reaches its target.
	TargetBonus = decimal.RequireFromString("0.20")
	// OvershootBonus is the extra bonus at max, interpolated linearly from target.
	OvershootBonus = decimal.RequireFromString("0.10")
)

// ComputeStreakBonus returns the streak multiplier component for a run of
// consecutiveDays.
func ComputeStreakBonus(consecutiveDays int) decimal.Decimal {
	if consecutiveDays <= 1 {
		return decimal.Zero
	}
	b := StreakBonusStep.Mul(decimalFromInt(consecutiveDays - 1))
	return decimal.Min(b, StreakBonusCap)
}

// ComputeBonus sums the streak, target and overshoot components. Only routine
// tasks earn a bonus. The sum is not capped.
func ComputeBonus(t storage.Task, consecutiveDays int) decimal.Decimal {
	if !t.IsRoutine {
		return decimal.Zero
	}

	bonus := decimal.Zero
	if consecutiveDays > 1 {
		bonus = bonus.Add(ComputeStreakBonus(consecutiveDays))
	}
	if t.CompletedCount >= t.Target {
		bonus = bonus.Add(TargetBonus)
	}
	if t.CompletedCount > t.Target && t.Max > t.Target {
		over := ratio(t.CompletedCount-t.Target, t.Max-t.Target)
		bonus = bonus.Add(over.Mul(OvershootBonus))
	}
	return bonus
}

// ComputePoints returns the points a single task has earned given its bonus.
// The bonus multiplies the base before the completion ratio is applied.
// Reward is always added, even when a one-shot task is below target.
func ComputePoints(t storage.Task, bonus decimal.Decimal) decimal.Decimal {
	base := t.Points
	if bonus.IsPositive() {
		base = base.Mul(one.Add(bonus))
	}

	if t.IsRoutine {
		if t.CompletedCount >= t.Target {
			base = base.Mul(decimal.Min(ratio(t.CompletedCount, t.Target), ratio(t.Max, t.Target)))
		} else {
			base = base.Mul(ratio(t.CompletedCount, t.Target))
		}
	} else if t.CompletedCount < t.Target {
		base = decimal.Zero
	}

	out := base.Add(t.Reward)
	if out.IsNegative() {
		return decimal.Zero
	}
	return out
}

// ComputeAggregate is the day total: completions times base points, summed
// and truncated to whole points. Bonus and reward are not part of it.
func ComputeAggregate(tasks []storage.Task) int {
	sum := decimal.Zero
	for i := range tasks {
		sum = sum.Add(tasks[i].Points.Mul(decimalFromInt(tasks[i].CompletedCount)))
	}
	return int(sum.IntPart())
}

// ComputeProgress returns totalPoints/goal clamped to [0,1].
func ComputeProgress(totalPoints int, goal int) float64 {
	if goal <= 0 || totalPoints <= 0 {
		return 0
	}
	p := decimalFromInt(totalPoints).Div(decimalFromInt(goal))
	p = decimal.Min(p, one)
	f, _ := p.Float64()
	return f
}

func ratio(num, den int) decimal.Decimal {
	if den <= 0 {
		return decimal.Zero
	}
	return decimalFromInt(num).Div(decimalFromInt(den))
}

func decimalFromInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
