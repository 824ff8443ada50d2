package root

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newIncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inc <#|id>",
		Aliases: []string{"do"},
		Short:   "Record one completion",
		Args:    exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd.OutOrStdout(), args[0], true)
		},
	}
}

func newDecCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "dec <#|id>",
		Aliases: []string{"undo"},
		Short:   "Remove one completion",
		Args:    exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStep(cmd.OutOrStdout(), args[0], false)
		},
	}
}

func runStep(out io.Writer, ref string, up bool) error {
	ctx := context.Background()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	t, err := resolveTask(ctx, svc, ref)
	if err != nil {
		return err
	}

	var res *engine.Result
	label := ui.IconPlus
	if up {
		res, err = svc.Increment(ctx, t.ID)
	} else {
		label = ui.IconMinus
		res, err = svc.Decrement(ctx, t.ID)
	}
	if err != nil {
		return err
	}

	if !res.Changed {
		bound := "max"
		if !up {
			bound = "zero"
		}
		fmt.Fprintf(out, "%s %s %s\n", ui.Muted.Render(label), res.Task.Title, ui.Muted.Render("(already at "+bound+")"))
		return nil
	}
	fmt.Fprintf(out, "%s %s %s\n", label, res.Task.Title, ui.Count(res.Task.CompletedCount, res.Task.Target, res.Task.Max))
	printTotals(out, res.Totals)
	return nil
}

func printTotals(out io.Writer, totals *engine.DayTotals) {
	if totals == nil {
		return
	}
	fmt.Fprintf(out, "%s %s %s\n",
		ui.LabelValue("Day", fmt.Sprintf("%d pts", totals.Points)),
		ui.ProgressBar(totals.Progress, 20),
		ui.Percent(totals.Progress))
}
