package application

import (
	"context"
	"fmt"

	"github.com/bnema/snookertab/internal/domain"
	"github.com/bnema/snookertab/internal/ports"
)

var reportColumns = []string{"Serial", "Table", "Date", "Start", "End", "Duration", "Rate", "Amount"}

// BuildReport aggregates the history into the exporter payload: formatted
// cells and a summary footer. Amounts use the currency code rather than its
// symbol so the document renders with the exporter's built-in fonts.
func (e *Engine) BuildReport(ctx context.Context) (ports.Report, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return ports.Report{}, err
	}

	rows := make([][]string, 0, len(ledger.Matches))
	for _, match := range ledger.Matches {
		rows = append(rows, []string{
			fmt.Sprintf("#%03d", match.Serial),
			fmt.Sprintf("Table %s", match.Table),
			match.StartTime.Format("2006-01-02"),
			domain.FormatClock(match.StartTime),
			domain.FormatClock(match.EndTime),
			fmt.Sprintf("%d min", match.Duration),
			fmt.Sprintf("%.2f", match.Rate),
			fmt.Sprintf("%.2f", match.Amount),
		})
	}

	totalMinutes, totalAmount := Summarize(ledger.Matches)
	now := e.clock.Now()

	return ports.Report{
		Title:       "Snooker Time & Billing - Match History",
		GeneratedAt: now,
		FileName:    fmt.Sprintf("snooker-history-%s.pdf", now.Format("2006-01-02")),
		Columns:     reportColumns,
		Rows:        rows,
		Footer: []string{
			fmt.Sprintf("Matches: %d", len(ledger.Matches)),
			fmt.Sprintf("Total minutes: %d", totalMinutes),
			fmt.Sprintf("Total amount: %s %.2f", ledger.Currency, totalAmount),
		},
	}, nil
}
