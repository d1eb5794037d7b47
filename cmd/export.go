package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pdfexport "github.com/bnema/snookertab/internal/adapters/export/pdf"
)

func newExportCmd(app *app) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the match history as a PDF report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.engine.BuildReport(cmd.Context())
			if err != nil {
				return err
			}

			exporter := app.exporter
			if outDir != "" {
				exporter = pdfexport.New(outDir)
			}

			var path string
			err = runExportSpinner(cmd.Context(), cmd.OutOrStdout(), func(ctx context.Context) error {
				var exportErr error
				path, exportErr = exporter.Export(ctx, report)
				return exportErr
			})
			if err != nil {
				return fmt.Errorf("export report: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "directory to write the report into (default: current directory)")

	return cmd
}
