package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type TableID string

var tableIDs = []TableID{"1", "2", "3", "4", "5", "6"}

// Tables returns the fixed, ordered set of table identifiers.
func Tables() []TableID {
	out := make([]TableID, len(tableIDs))
	copy(out, tableIDs)
	return out
}

func ValidTable(id TableID) bool {
	for _, t := range tableIDs {
		if t == id {
			return true
		}
	}
	return false
}

// Match is a completed, billed table session. Duration and Amount are
// derived: Duration is the billable-minute count between StartTime and
// EndTime, and Amount must equal Duration * Rate.
type Match struct {
	Serial    uint64
	Table     TableID
	StartTime time.Time
	EndTime   time.Time
	Duration  int
	Rate      float64
	Amount    float64
}

func (m Match) Validate() error {
	if m.Serial == 0 {
		return fmt.Errorf("serial is required")
	}
	if !ValidTable(m.Table) {
		return fmt.Errorf("%w: %q", ErrUnknownTable, m.Table)
	}
	if m.EndTime.Before(m.StartTime) {
		return ErrEndBeforeStart
	}
	if m.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if !amountsEqual(m.Amount, ComputeAmount(m.Duration, m.Rate)) {
		return fmt.Errorf("amount %.2f does not match duration %d at rate %.2f", m.Amount, m.Duration, m.Rate)
	}
	return nil
}

// ActiveMatch is an in-progress session on a table. The rate is fixed at
// start and does not change while the match is running.
type ActiveMatch struct {
	Table     TableID
	StartTime time.Time
	Rate      float64
}

// Ledger is the single mutable aggregate the lifecycle engine operates on:
// the completed-match history, the per-table active sessions, the serial
// counter and the selected currency. The persistence adapter receives whole
// post-mutation snapshots of it.
type Ledger struct {
	Matches       []Match
	Active        map[TableID]ActiveMatch
	SerialCounter uint64
	Currency      Code
}

// ApplyDefaults fills the zero values a freshly loaded or empty ledger may
// carry: the counter starts at 1 and the currency falls back to the default.
func (l *Ledger) ApplyDefaults() {
	if l.Active == nil {
		l.Active = map[TableID]ActiveMatch{}
	}
	if l.SerialCounter == 0 {
		l.SerialCounter = 1
	}
	if strings.TrimSpace(string(l.Currency)) == "" {
		l.Currency = DefaultCurrency
	}
	// The counter always stays ahead of the history so serials are never
	// handed out twice, even if the stored counter was lost.
	for _, m := range l.Matches {
		if m.Serial >= l.SerialCounter {
			l.SerialCounter = m.Serial + 1
		}
	}
}

// NextSerial hands out the next match serial and advances the counter.
// Serials are never reused, even after deletion.
func (l *Ledger) NextSerial() uint64 {
	serial := l.SerialCounter
	l.SerialCounter++
	return serial
}

// SortHistory orders the history newest-first by serial. Called after every
// insert and edit so listings and exports always see the same order.
func (l *Ledger) SortHistory() {
	sort.Slice(l.Matches, func(i, j int) bool {
		return l.Matches[i].Serial > l.Matches[j].Serial
	})
}

// FindMatch returns the index of the match with the given serial, or -1.
func (l *Ledger) FindMatch(serial uint64) int {
	for i := range l.Matches {
		if l.Matches[i].Serial == serial {
			return i
		}
	}
	return -1
}
