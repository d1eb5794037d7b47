package domain

import (
	"fmt"
	"math"
	"time"
)

// BillableMinutes returns the billed duration between two instants in whole
// minutes. Partial minutes round up, so any non-zero playing time bills at
// least one minute. A non-positive span clamps to zero.
func BillableMinutes(start, end time.Time) int {
	span := end.Sub(start)
	if span <= 0 {
		return 0
	}
	return int((span.Nanoseconds() + int64(time.Minute) - 1) / int64(time.Minute))
}

// ComputeAmount derives the charge for a session. Amounts are always
// recomputed from duration and rate, never accumulated, so edits cannot
// drift the stored value.
func ComputeAmount(minutes int, rate float64) float64 {
	return roundCents(float64(minutes) * rate)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.005
}

// ParseWallClock parses a bare time-of-day ("18:05" or "18:05:30") and
// anchors it to the calendar date of day, in day's location.
func ParseWallClock(value string, day time.Time) (time.Time, error) {
	var parsed time.Time
	var err error
	for _, layout := range []string{"15:04", "15:04:05"} {
		parsed, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("parse wall-clock time %q: %w", value, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, day.Location()), nil
}

// FormatClock renders an instant as a 12-hour wall-clock time, the way the
// hall's paper slips read.
func FormatClock(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatElapsed renders a live elapsed span as h:mm:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
