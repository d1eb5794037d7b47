package application

import (
	"time"

	"github.com/bnema/snookertab/internal/domain"
)

type StartCommand struct {
	Table domain.TableID
	// Rate in currency units per minute; zero selects the currency default.
	Rate float64
}

// RecordCommand enters an already-finished session by its wall-clock times.
// When End is not after Start the end rolls forward one day, covering
// sessions that run past midnight.
type RecordCommand struct {
	Table domain.TableID
	Start string
	End   string
	Rate  float64
}

// EditCommand replaces fields of a completed match. Nil fields keep the
// stored value. The serial is never changed.
type EditCommand struct {
	Serial uint64
	Table  *domain.TableID
	Start  *time.Time
	End    *time.Time
	Rate   *float64
}
