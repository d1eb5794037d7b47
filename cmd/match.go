package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/adapters/render/board"
	"github.com/bnema/snookertab/internal/application"
	"github.com/bnema/snookertab/internal/domain"
)

func newMatchCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Manage completed matches",
	}

	cmd.AddCommand(
		newMatchListCmd(app),
		newMatchEditCmd(app),
		newMatchDeleteCmd(app),
	)

	return cmd
}

func newMatchListCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the match history, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := app.engine.History(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view.Matches)
			}

			rendered, err := board.RenderHistory(view)
			if err != nil {
				return fmt.Errorf("render history: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")

	return cmd
}

func newMatchEditCmd(app *app) *cobra.Command {
	var (
		table string
		start string
		end   string
		rate  float64
	)

	cmd := &cobra.Command{
		Use:   "edit <serial>",
		Short: "Edit a completed match; duration and amount are recomputed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serial, err := parseSerial(args[0])
			if err != nil {
				return err
			}

			current, err := app.engine.GetMatch(cmd.Context(), serial)
			if err != nil {
				return err
			}

			edit := application.EditCommand{Serial: serial}
			if cmd.Flags().Changed("table") {
				id := domain.TableID(table)
				edit.Table = &id
			}
			if cmd.Flags().Changed("start") {
				parsed, err := parseEditTime(start, current.StartTime)
				if err != nil {
					return err
				}
				edit.Start = &parsed
			}
			if cmd.Flags().Changed("end") {
				parsed, err := parseEditTime(end, current.StartTime)
				if err != nil {
					return err
				}
				edit.End = &parsed
			}
			if cmd.Flags().Changed("rate") {
				edit.Rate = &rate
			}

			match, err := app.engine.Edit(cmd.Context(), edit)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Match #%03d updated: Table %s, %d min at %.2f/min = %.2f\n",
				match.Serial, match.Table, match.Duration, match.Rate, match.Amount)
			return err
		},
	}

	cmd.Flags().StringVar(&table, "table", "", "new table number")
	cmd.Flags().StringVar(&start, "start", "", "new start time (HH:MM or \"2006-01-02 15:04\")")
	cmd.Flags().StringVar(&end, "end", "", "new end time (HH:MM or \"2006-01-02 15:04\")")
	cmd.Flags().Float64Var(&rate, "rate", 0, "new per-minute rate")

	return cmd
}

func newMatchDeleteCmd(app *app) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete <serial>",
		Short: "Delete a completed match from the history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serial, err := parseSerial(args[0])
			if err != nil {
				return err
			}

			if !confirmed {
				return fmt.Errorf("deleting match #%03d is permanent; re-run with --yes to confirm", serial)
			}

			removed, err := app.engine.Delete(cmd.Context(), serial)
			if err != nil {
				return err
			}

			if !removed {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "No match with serial #%03d; history unchanged.\n", serial)
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Match #%03d deleted.\n", serial)
			return err
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")

	return cmd
}

func parseSerial(raw string) (uint64, error) {
	serial, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid serial %q: %w", raw, err)
	}
	return serial, nil
}

// parseEditTime accepts either a full timestamp or a bare time-of-day; the
// latter keeps the match on its original calendar date.
func parseEditTime(raw string, anchor time.Time) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04:05"} {
		if parsed, err := time.ParseInLocation(layout, raw, anchor.Location()); err == nil {
			return parsed, nil
		}
	}
	return domain.ParseWallClock(raw, anchor)
}
