package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newDupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dup <#|id>",
		Short: "Duplicate a task onto the end of its day",
		Args:  exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := resolveTask(ctx, svc, args[0])
			if err != nil {
				return err
			}
			res, err := svc.Duplicate(ctx, t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Duplicated"),
				res.Task.Title,
				ui.Muted.Render(shortID(res.Task.ID)))
			return nil
		},
	}
}
