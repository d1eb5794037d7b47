package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/adapters/render/board"
)

func newTablesCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Show the table board: idle tables and running matches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.engine.TableStatuses(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statuses)
			}

			view, err := app.engine.History(cmd.Context())
			if err != nil {
				return err
			}

			rendered, err := board.RenderBoard(statuses, board.RenderOptions{
				Now:    app.now(),
				Symbol: view.Symbol,
			})
			if err != nil {
				return fmt.Errorf("render table board: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}
