package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/storage"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the selected day's tasks",
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
			day, tasks, err := svc.TasksForDate(ctx, date)
			if err != nil {
				return err
			}
			printDay(cmd.OutOrStdout(), day, tasks)
			return nil
		},
	}
	return cmd
}

func printDay(out io.Writer, day *storage.Day, tasks []storage.Task) {
	points := engine.ComputeAggregate(tasks)
	progress := engine.ComputeProgress(points, day.Target*len(tasks))

	fmt.Fprintln(out, ui.Heading(ui.IconDay, storage.DateKey(day.Date)))
	fmt.Fprintf(out, "%s %s %s\n",
		ui.LabelValue("Points", points),
		ui.ProgressBar(progress, 20),
		ui.Percent(progress))
	fmt.Fprintln(out, "")
	if len(tasks) == 0 {
		fmt.Fprintln(out, ui.Muted.Render("(no tasks)"))
		return
	}
	for i, t := range tasks {
		fmt.Fprintf(out, "%2d. %s %s %s %s %s\n",
			i+1,
			ui.KindIcon(false, t.IsRoutine),
			t.Title,
			ui.Flags(t.IsCritical, t.IsOptional),
			ui.Count(t.CompletedCount, t.Target, t.Max),
			ui.Muted.Render(fmt.Sprintf("%s pts · %s", ui.Points(t.Points), shortID(t.ID))))
	}
}
