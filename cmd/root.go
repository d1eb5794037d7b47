package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "snookertab",
		Short:         "Snooker table time and billing tracker",
		Long:          "snookertab tracks per-table match sessions for a snooker hall: start and end tables, record and edit completed matches, review totals, and export the history as a PDF report.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newStartCmd(app),
		newEndCmd(app),
		newRecordCmd(app),
		newMatchCmd(app),
		newTablesCmd(app),
		newSummaryCmd(app),
		newCurrencyCmd(app),
		newExportCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
