package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/bnema/snookertab/internal/ports"
)

const (
	pageMargin   = 12.0
	headerHeight = 8.0
	rowHeight    = 7.0
)

// column widths in mm, matching the report column order.
var columnWidths = []float64{16, 20, 24, 22, 22, 24, 18, 24}

// Exporter renders a report into a PDF file under outDir. It performs no
// billing logic; every cell arrives preformatted.
type Exporter struct {
	outDir string
}

var _ ports.ReportExporter = (*Exporter)(nil)

func New(outDir string) *Exporter {
	return &Exporter{outDir: outDir}
}

func (e *Exporter) Export(ctx context.Context, report ports.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(report.Columns) != len(columnWidths) {
		return "", fmt.Errorf("expected %d report columns, got %d", len(columnWidths), len(report.Columns))
	}

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	doc.SetTitle(report.Title, true)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, report.Title, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, fmt.Sprintf("Generated %s", report.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "C", false, 0, "")
	doc.Ln(4)

	writeHeader := func() {
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(230, 230, 230)
		for i, column := range report.Columns {
			doc.CellFormat(columnWidths[i], headerHeight, column, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", 9)
	}
	writeHeader()

	_, pageHeight := doc.GetPageSize()
	for _, row := range report.Rows {
		if doc.GetY()+rowHeight > pageHeight-pageMargin {
			doc.AddPage()
			writeHeader()
		}
		for i, cell := range row {
			align := "L"
			if i >= 5 {
				align = "R"
			}
			doc.CellFormat(columnWidths[i], rowHeight, cell, "1", 0, align, false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 10)
	for _, line := range report.Footer {
		doc.CellFormat(0, 6, line, "", 1, "R", false, 0, "")
	}

	path := filepath.Join(e.outDir, report.FileName)
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report pdf: %w", err)
	}

	return path, nil
}
