package application

import (
	"time"

	"github.com/bnema/snookertab/internal/domain"
)

// TableStatus is the read-only view of one table: idle, or occupied with
// the elapsed time and the amount accrued so far at the fixed rate.
type TableStatus struct {
	Table         domain.TableID
	Occupied      bool
	StartedAt     time.Time
	Elapsed       time.Duration
	Rate          float64
	RunningAmount float64
}

type HistoryView struct {
	Matches  []domain.Match
	Currency domain.Code
	Symbol   string
}

type Summary struct {
	Currency     domain.Code
	Symbol       string
	Matches      int
	TotalMinutes int
	TotalAmount  float64
}

type CurrencyChange struct {
	Previous domain.Code
	Current  domain.Code
	Info     domain.CurrencyInfo
	// RateReset reports that the previous currency's default rate is not
	// offered under the new currency, so the preselected rate snapped to
	// the new default.
	RateReset bool
}
