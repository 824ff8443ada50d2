package root

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

var hundred = decimal.NewFromInt(100)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the selected day's totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			date, err := selectedDate(svc)
			if err != nil {
				return err
			}
			day, _, err := svc.TasksForDate(ctx, date)
			if err != nil {
				return err
			}
			sum, err := svc.Summary(ctx, day.ID)
			if err != nil {
				return err
			}
			templates, err := svc.ListTemplates(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Day Status"))
			fmt.Fprintln(out, ui.LabelValue("Date", storage.DateKey(sum.Day.Date)))
			fmt.Fprintln(out, ui.LabelValue("Tasks", fmt.Sprintf("%d (%d at target)", len(sum.Tasks), sum.Completed)))
			fmt.Fprintln(out, ui.LabelValue("Templates", len(templates)))
			fmt.Fprintln(out, ui.LabelValue("Points", fmt.Sprintf("%d / %d", sum.Points, sum.Goal)))
			fmt.Fprintf(out, "%s %s\n", ui.ProgressBar(sum.Progress, 30), ui.Percent(sum.Progress))
			if sum.Progress >= 1 {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconTrophy+" Goal reached"))
			}
			return nil
		},
	}
	return cmd
}
