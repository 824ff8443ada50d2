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

type definitionFlags struct {
	points   string
	target   int
	max      int
	reward   string
	routine  bool
	optional bool
	critical bool
}

func (f *definitionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.points, "points", "p", "1", "Base point value (decimal)")
	cmd.Flags().IntVarP(&f.target, "target", "t", 1, "Completions needed for full credit")
	cmd.Flags().IntVarP(&f.max, "max", "m", 0, "Cap on completions that earn points (default target)")
	cmd.Flags().StringVar(&f.reward, "reward", "0", "Fixed reward added to the task's points (decimal)")
	cmd.Flags().BoolVarP(&f.routine, "routine", "r", false, "Score by completion ratio (partial credit)")
	cmd.Flags().BoolVar(&f.optional, "optional", false, "Mark as optional")
	cmd.Flags().BoolVar(&f.critical, "critical", false, "Mark as critical")
}

func (f *definitionFlags) definition(title string) (engine.TaskDefinition, error) {
	points, err := decimal.NewFromString(f.points)
	if err != nil {
		return engine.TaskDefinition{}, fmt.Errorf("invalid --points %q", f.points)
	}
	reward, err := decimal.NewFromString(f.reward)
	if err != nil {
		return engine.TaskDefinition{}, fmt.Errorf("invalid --reward %q", f.reward)
	}
	return engine.TaskDefinition{
		Title:      title,
		Points:     points,
		Target:     f.target,
		Max:        f.max,
		Reward:     reward,
		IsRoutine:  f.routine,
		IsOptional: f.optional,
		IsCritical: f.critical,
	}, nil
}

func exactlyOne(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func newAddCmd() *cobra.Command {
	var f definitionFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task to the selected day",
		Args:  exactlyOne("title"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			def, err := f.definition(args[0])
			if err != nil {
				return err
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
			res, err := svc.Create(ctx, def, day.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n",
				ui.Good.Render(ui.IconPlus+" Added"),
				ui.KindIcon(false, res.Task.IsRoutine),
				res.Task.Title,
				ui.Muted.Render(fmt.Sprintf("(#%d, %s)", res.Task.Position+1, shortID(res.Task.ID))))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}
