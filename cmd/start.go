package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/application"
	"github.com/bnema/snookertab/internal/domain"
)

func newStartCmd(app *app) *cobra.Command {
	var rate float64

	cmd := &cobra.Command{
		Use:   "start <table>",
		Short: "Start a match on an idle table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active, err := app.engine.Start(cmd.Context(), application.StartCommand{
				Table: domain.TableID(args[0]),
				Rate:  rate,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Table %s started at %s (rate %.2f/min)\n",
				active.Table, domain.FormatClock(active.StartTime), active.Rate)
			return err
		},
	}

	cmd.Flags().Float64Var(&rate, "rate", 0, "per-minute rate (defaults to the currency's default rate)")

	return cmd
}
