package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
)

// Reorder moves the tasks at the from indices (in current display order) so
// they sit before the task currently at index to; to == len(tasks) moves them
// to the end. Moved tasks keep their relative order. Positions are rewritten
// as 0..n-1 and no task changes day.
func (s *Service) Reorder(ctx context.Context, dayID string, from []int, to int) ([]storage.Task, error) {
	var out []storage.Task
	_, err := s.mutate(ctx, "reorder", func(r repos) (*DayTotals, error) {
		if _, err := getDay(ctx, r.days, dayID); err != nil {
			return nil, err
		}
		tasks, err := r.tasks.ListByDay(ctx, dayID)
		if err != nil {
			return nil, err
		}
		order, err := moveOrder(len(tasks), from, to)
		if err != nil {
			return nil, err
		}
		out = make([]storage.Task, len(tasks))
		for i, idx := range order {
			out[i] = tasks[idx]
		}
		return nil, renumber(ctx, r.tasks, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// moveOrder returns the old indices of n items in their new order.
func moveOrder(n int, from []int, to int) ([]int, error) {
	if len(from) == 0 {
		return nil, ValidationError{Field: "from", Reason: "at least one index is required"}
	}
	if to < 0 || to > n {
		return nil, ValidationError{Field: "to", Reason: fmt.Sprintf("must be in [0,%d]", n)}
	}

	moving := append([]int(nil), from...)
	sort.Ints(moving)
	picked := make(map[int]bool, len(moving))
	for _, i := range moving {
		if i < 0 || i >= n {
			return nil, ValidationError{Field: "from", Reason: fmt.Sprintf("index %d out of range", i)}
		}
		if picked[i] {
			return nil, ValidationError{Field: "from", Reason: fmt.Sprintf("index %d repeated", i)}
		}
		picked[i] = true
	}

	rest := make([]int, 0, n-len(moving))
	insert := to
	for i := 0; i < n; i++ {
		if picked[i] {
			if i < to {
				insert--
			}
			continue
		}
		rest = append(rest, i)
	}

	order := make([]int, 0, n)
	order = append(order, rest[:insert]...)
	order = append(order, moving...)
	order = append(order, rest[insert:]...)
	return order, nil
}
