package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/domain"
)

func newCurrencyCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "currency",
		Short: "Show or change the billing currency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := app.engine.History(cmd.Context())
			if err != nil {
				return err
			}

			info, err := app.engine.Catalog().Lookup(view.Currency)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)  rates/min: %v  default: %.2f\n",
				view.Currency, info.Symbol, info.Rates, info.DefaultRate)
			return err
		},
	}

	cmd.AddCommand(newCurrencySetCmd(app), newCurrencyListCmd(app))

	return cmd
}

func newCurrencySetCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <code>",
		Short: "Switch the billing currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			change, err := app.engine.SetCurrency(cmd.Context(), domain.Code(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "Currency set to %s (%s).\n", change.Current, change.Info.Symbol); err != nil {
				return err
			}
			if change.RateReset {
				_, err = fmt.Fprintf(out, "Rate selection reset to the %s default: %.2f/min.\n",
					change.Current, change.Info.DefaultRate)
			}
			return err
		},
	}
}

func newCurrencyListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured currencies and their rate lists",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog := app.engine.Catalog()
			for _, code := range catalog.Codes() {
				info := catalog[code]
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\trates/min: %v\tdefault: %.2f\n",
					code, info.Symbol, info.Rates, info.DefaultRate); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
