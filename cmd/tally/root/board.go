package root

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive day board",
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
			return tui.RunBoard(ctx, svc, date, cmd.OutOrStdout())
		},
	}

	return cmd
}
