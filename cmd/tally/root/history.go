package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/storage"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show stored day totals ending at the selected day",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if days < 1 {
				days = 1
			}
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			to, err := selectedDate(svc)
			if err != nil {
				return err
			}
			from := to.AddDate(0, 0, -(days - 1))
			list, err := svc.History(ctx, from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDay, "History"))
			if len(list) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(no days recorded)"))
				return nil
			}
			for _, d := range list {
				fmt.Fprintf(out, "- %s %s %s\n",
					storage.DateKey(d.Date),
					ui.Key.Render(ui.Points(d.Points)+" pts"),
					ui.Muted.Render(fmt.Sprintf("(target %d/task)", d.Target)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "n", 7, "Number of days to show")
	return cmd
}
