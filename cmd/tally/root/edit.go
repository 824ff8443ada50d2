package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/engine"
	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newEditCmd() *cobra.Command {
	var (
		title    string
		points   string
		reward   string
		count    int
		target   int
		maxCount int
		routine  bool
		optional bool
		critical bool
	)

	cmd := &cobra.Command{
		Use:   "edit <#|id>",
		Short: "Change fields of a task or template (only the flags given)",
		Args:  exactlyOne("task"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			flags := cmd.Flags()

			var ch engine.TaskChanges
			if flags.Changed("title") {
				ch.Title = &title
			}
			if flags.Changed("points") {
				d, err := decimal.NewFromString(points)
				if err != nil {
					return fmt.Errorf("invalid --points %q", points)
				}
				ch.Points = &d
			}
			if flags.Changed("reward") {
				d, err := decimal.NewFromString(reward)
				if err != nil {
					return fmt.Errorf("invalid --reward %q", reward)
				}
				ch.Reward = &d
			}
			if flags.Changed("count") {
				ch.CompletedCount = &count
			}
			if flags.Changed("target") {
				ch.Target = &target
			}
			if flags.Changed("max") {
				ch.Max = &maxCount
			}
			if flags.Changed("routine") {
				ch.IsRoutine = &routine
			}
			if flags.Changed("optional") {
				ch.IsOptional = &optional
			}
			if flags.Changed("critical") {
				ch.IsCritical = &critical
			}
			if ch.Empty() {
				return errors.New("nothing to change")
			}

			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := resolveTask(ctx, svc, args[0])
			if err != nil {
				return err
			}
			res, err := svc.Update(ctx, t.ID, ch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconDone+" Updated"), res.Task.Title)
			printTotals(cmd.OutOrStdout(), res.Totals)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&points, "points", "p", "", "Base point value (decimal)")
	cmd.Flags().StringVar(&reward, "reward", "", "Reward (decimal)")
	cmd.Flags().IntVarP(&count, "count", "c", 0, "Completed count")
	cmd.Flags().IntVarP(&target, "target", "t", 0, "Target completions")
	cmd.Flags().IntVarP(&maxCount, "max", "m", 0, "Max completions")
	cmd.Flags().BoolVarP(&routine, "routine", "r", false, "Routine scoring")
	cmd.Flags().BoolVar(&optional, "optional", false, "Optional marker")
	cmd.Flags().BoolVar(&critical, "critical", false, "Critical marker")
	return cmd
}
