package application

import (
	"context"

	"github.com/bnema/snookertab/internal/domain"
)

// Summarize reduces the full history to its totals. It is recomputed on
// every read rather than maintained incrementally, so it cannot drift from
// the history after edits or deletes.
func Summarize(matches []domain.Match) (totalMinutes int, totalAmount float64) {
	for _, match := range matches {
		totalMinutes += match.Duration
		totalAmount += match.Amount
	}
	return totalMinutes, totalAmount
}

func (e *Engine) Summary(ctx context.Context) (Summary, error) {
	ledger, err := e.load(ctx)
	if err != nil {
		return Summary{}, err
	}

	totalMinutes, totalAmount := Summarize(ledger.Matches)

	symbol := ""
	if info, infoErr := e.catalog.Lookup(ledger.Currency); infoErr == nil {
		symbol = info.Symbol
	}

	return Summary{
		Currency:     ledger.Currency,
		Symbol:       symbol,
		Matches:      len(ledger.Matches),
		TotalMinutes: totalMinutes,
		TotalAmount:  totalAmount,
	}, nil
}
