package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/storage"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <#|id>",
		Short: "Delete a task from its day",
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
			res, err := svc.Delete(ctx, t.ID)
			if err != nil {
				return err
			}
			verb := "Deleted"
			if res.Task.IsTemplate {
				verb = "Archived template"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" "+verb), res.Task.Title)
			printTotals(cmd.OutOrStdout(), res.Totals)

			if res.Task.IsTemplate || res.Task.SourceTemplateID == nil {
				return nil
			}
			tpl, err := svc.Task(ctx, *res.Task.SourceTemplateID)
			if err != nil && !engine.IsNotFound(err) {
				return err
			}
			if note := rematerializeNote(tpl); note != "" {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render(ui.IconWarn+" "+note))
			}
			return nil
		},
	}
}

// rematerializeNote warns that a deleted instance returns with the next load
// of its day while tpl is still active.
func rematerializeNote(tpl *storage.Task) string {
	if tpl == nil || !tpl.IsTemplate || tpl.ArchivedAt != nil {
		return ""
	}
	return fmt.Sprintf("template %q is active: the task returns next time this day loads (archive it with `tally template rm %s`)",
		tpl.Title, shortID(tpl.ID))
}
