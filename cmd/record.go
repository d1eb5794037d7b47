package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/application"
	"github.com/bnema/snookertab/internal/domain"
)

func newRecordCmd(app *app) *cobra.Command {
	var (
		table string
		start string
		end   string
		rate  float64
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record an already-finished match from its wall-clock times",
		RunE: func(cmd *cobra.Command, _ []string) error {
			match, err := app.engine.Record(cmd.Context(), application.RecordCommand{
				Table: domain.TableID(table),
				Start: start,
				End:   end,
				Rate:  rate,
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Match #%03d recorded: Table %s, %d min at %.2f/min = %.2f\n",
				match.Serial, match.Table, match.Duration, match.Rate, match.Amount)
			return err
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "table number")
	cmd.Flags().StringVar(&start, "start", "", "start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "end time (HH:MM); at or before start means past midnight")
	cmd.Flags().Float64Var(&rate, "rate", 0, "per-minute rate (defaults to the currency's default rate)")
	_ = cmd.MarkFlagRequired("table")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
