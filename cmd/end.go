package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/domain"
)

func newEndCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "end <table>",
		Short: "End the active match on a table and bill it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := app.engine.End(cmd.Context(), domain.TableID(args[0]))
			if err != nil {
				if errors.Is(err, domain.ErrTooShortToBill) {
					_, printErr := fmt.Fprintf(cmd.OutOrStdout(),
						"Table %s is idle again; the match was too short to bill.\n", args[0])
					return printErr
				}
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Match #%03d billed: Table %s, %d min at %.2f/min = %.2f\n",
				match.Serial, match.Table, match.Duration, match.Rate, match.Amount)
			return err
		},
	}
}
