package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <#>... <to#>",
		Short: "Move tasks (by list number) so they sit before task <to#>",
		Long: `Move one or more tasks, identified by their list numbers, so that they
sit immediately before the task currently numbered <to#>. Use a <to#> one past
the last task to move them to the end.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return errors.New("at least one task number and a destination are required")
			}
			for _, a := range args {
				if _, err := strconv.Atoi(a); err != nil {
					return fmt.Errorf("%q is not a list number", a)
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			from := make([]int, 0, len(args)-1)
			for _, a := range args[:len(args)-1] {
				n, _ := strconv.Atoi(a)
				from = append(from, n-1)
			}
			to, _ := strconv.Atoi(args[len(args)-1])

			date, err := selectedDate(svc)
			if err != nil {
				return err
			}
			day, _, err := svc.TasksForDate(ctx, date)
			if err != nil {
				return err
			}
			tasks, err := svc.Reorder(ctx, day.ID, from, to-1)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Reordered"))
			printDay(cmd.OutOrStdout(), day, tasks)
			return nil
		},
	}
	return cmd
}
