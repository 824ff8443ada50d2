package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claudebuildsapps/points-sub001/internal/ui"
)

const Version = "0.1.0"

var (
	flagDate    string
	flagDB      string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:           "tally",
	Short:         "tally — daily habit points tracker",
	Long:          "tally tracks daily tasks and routines, materializes recurring templates per day and scores completions.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Day to operate on (YYYY-MM-DD, default today)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(
		newAddCmd(),
		newTemplateCmd(),
		newListCmd(),
		newIncCmd(),
		newDecCmd(),
		newEditCmd(),
		newDupCmd(),
		newRmCmd(),
		newMoveCmd(),
		newClearCmd(),
		newResetCmd(),
		newTargetCmd(),
		newShowCmd(),
		newStatusCmd(),
		newHistoryCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
