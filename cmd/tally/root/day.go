package root

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every task on the selected day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day, err := currentDay(ctx, svc)
			if err != nil {
				return err
			}
			totals, err := svc.ClearTasks(ctx, day.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Cleared"), storage.DateKey(day.Date))
			printTotals(cmd.OutOrStdout(), totals)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Zero every completion on the selected day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day, err := currentDay(ctx, svc)
			if err != nil {
				return err
			}
			totals, err := svc.ResetCompletions(ctx, day.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconUndo+" Reset"), storage.DateKey(day.Date))
			printTotals(cmd.OutOrStdout(), totals)
			return nil
		},
	}
}

func newTargetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "target <points-per-task>",
		Short: "Set the selected day's per-task point goal",
		Args:  exactlyOne("target"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			target, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid target %q", args[0])
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day, err := currentDay(ctx, svc)
			if err != nil {
				return err
			}
			totals, err := svc.SetDayTarget(ctx, day.ID, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconDone+" Target set"), ui.LabelValue(storage.DateKey(day.Date), target))
			printTotals(cmd.OutOrStdout(), totals)
			return nil
		},
	}
}
