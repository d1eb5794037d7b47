package bolt

import (
	"fmt"
	"strings"
	"time"

	"github.com/bnema/snookertab/internal/domain"
)

// Stored timestamps are timezone-naive wall-clock instants. Values without
// a date separator are the legacy time-of-day form and get migrated by
// anchoring them to the current calendar date.
const timeLayout = "2006-01-02T15:04:05"

type matchSchema struct {
	Serial    uint64  `json:"serial"`
	Table     string  `json:"table"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Duration  int     `json:"duration"`
	Rate      float64 `json:"rate"`
	Amount    float64 `json:"amount"`
}

type activeMatchSchema struct {
	StartTime string  `json:"startTime"`
	Rate      float64 `json:"rate"`
}

func encodeTime(t time.Time) string {
	return t.Format(timeLayout)
}

// decodeTime parses a stored timestamp. The second result reports that the
// value was in the legacy bare time-of-day form and has been migrated.
func decodeTime(raw string, today time.Time) (time.Time, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false, fmt.Errorf("empty timestamp")
	}

	if !strings.Contains(raw, "-") {
		migrated, err := domain.ParseWallClock(raw, today)
		if err != nil {
			return time.Time{}, false, err
		}
		return migrated, true, nil
	}

	if parsed, err := time.ParseInLocation(timeLayout, raw, today.Location()); err == nil {
		return parsed, false, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return parsed, false, nil
}

func encodeMatch(match domain.Match) matchSchema {
	return matchSchema{
		Serial:    match.Serial,
		Table:     string(match.Table),
		StartTime: encodeTime(match.StartTime),
		EndTime:   encodeTime(match.EndTime),
		Duration:  match.Duration,
		Rate:      match.Rate,
		Amount:    match.Amount,
	}
}

func decodeMatch(entry matchSchema, today time.Time) (domain.Match, bool, error) {
	start, startMigrated, err := decodeTime(entry.StartTime, today)
	if err != nil {
		return domain.Match{}, false, fmt.Errorf("match %d start: %w", entry.Serial, err)
	}
	end, endMigrated, err := decodeTime(entry.EndTime, today)
	if err != nil {
		return domain.Match{}, false, fmt.Errorf("match %d end: %w", entry.Serial, err)
	}

	return domain.Match{
		Serial:    entry.Serial,
		Table:     domain.TableID(entry.Table),
		StartTime: start,
		EndTime:   end,
		Duration:  entry.Duration,
		Rate:      entry.Rate,
		Amount:    entry.Amount,
	}, startMigrated || endMigrated, nil
}

func encodeActive(active domain.ActiveMatch) activeMatchSchema {
	return activeMatchSchema{
		StartTime: encodeTime(active.StartTime),
		Rate:      active.Rate,
	}
}

func decodeActive(table string, entry activeMatchSchema, today time.Time) (domain.ActiveMatch, bool, error) {
	start, migrated, err := decodeTime(entry.StartTime, today)
	if err != nil {
		return domain.ActiveMatch{}, false, fmt.Errorf("active match on table %s: %w", table, err)
	}

	return domain.ActiveMatch{
		Table:     domain.TableID(table),
		StartTime: start,
		Rate:      entry.Rate,
	}, migrated, nil
}
