package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"tpl"},
		Short:   "Manage recurring task templates",
	}
	cmd.AddCommand(newTemplateAddCmd(), newTemplateListCmd(), newTemplateRmCmd())
	return cmd
}

func newTemplateAddCmd() *cobra.Command {
	var f definitionFlags

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a template that is copied onto every day",
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

			res, err := svc.CreateTemplate(ctx, def)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				ui.Good.Render(ui.IconTemplate+" Template added"),
				res.Task.Title,
				ui.Muted.Render(shortID(res.Task.ID)))
			return nil
		},
	}

	f.register(cmd)
	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			templates, err := svc.ListTemplates(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTemplate, "Templates"))
			if len(templates) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, t := range templates {
				fmt.Fprintf(out, "- %s %s %s %s %s\n",
					ui.Muted.Render(shortID(t.ID)),
					ui.KindIcon(false, t.IsRoutine),
					t.Title,
					ui.Flags(t.IsCritical, t.IsOptional),
					ui.Muted.Render(fmt.Sprintf("%s pts, target %d, max %d, reward %s", ui.Points(t.Points), t.Target, t.Max, ui.Points(t.Reward))))
			}
			return nil
		},
	}
}

func newTemplateRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Archive a template (existing day tasks are kept)",
		Args:  exactlyOne("id"),
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
			if !t.IsTemplate {
				return fmt.Errorf("%s is not a template", shortID(t.ID))
			}
			if _, err := svc.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Archived"), t.Title)
			return nil
		},
	}
}
