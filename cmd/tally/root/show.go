package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <#|id>",
		Short: "Show a task's streak, bonus and earned points",
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
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.KindIcon(t.IsTemplate, t.IsRoutine), t.Title))
			fmt.Fprintln(out, ui.LabelValue("ID", t.ID))
			fmt.Fprintln(out, ui.LabelValue("Completions", ui.Count(t.CompletedCount, t.Target, t.Max)))
			fmt.Fprintln(out, ui.LabelValue("Base points", ui.Points(t.Points)))
			fmt.Fprintln(out, ui.LabelValue("Reward", ui.Points(t.Reward)))
			if t.IsTemplate {
				return nil
			}

			score, err := svc.TaskScore(ctx, t.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, score.Streak)))
			fmt.Fprintln(out, ui.LabelValue("Bonus", "+"+score.Bonus.Mul(hundred).StringFixed(0)+"%"))
			fmt.Fprintln(out, ui.LabelValue("Earned", ui.Gold.Render(score.Points.StringFixed(2))))
			return nil
		},
	}
}
