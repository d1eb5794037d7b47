package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillableMinutesRoundsUp(t *testing.T) {
	start := time.Date(2026, 8, 30, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		span time.Duration
		want int
	}{
		{name: "exact minutes stay exact", span: 90 * time.Minute, want: 90},
		{name: "partial minute rounds up", span: 150 * time.Second, want: 3},
		{name: "under a minute bills one", span: 59 * time.Second, want: 1},
		{name: "one second bills one", span: time.Second, want: 1},
		{name: "zero span is zero", span: 0, want: 0},
		{name: "negative span clamps to zero", span: -5 * time.Minute, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BillableMinutes(start, start.Add(tt.span)))
		})
	}
}

func TestComputeAmountRecomputesFromSource(t *testing.T) {
	assert.InDelta(t, 12.0, ComputeAmount(3, 4.0), 0.005)
	assert.InDelta(t, 380.0, ComputeAmount(95, 4.0), 0.005)
	assert.InDelta(t, 0.36, ComputeAmount(3, 0.12), 0.005)
	assert.Equal(t, 0.0, ComputeAmount(0, 4.5))
}

func TestParseWallClockAnchorsToDay(t *testing.T) {
	day := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)

	got, err := ParseWallClock("18:05", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 18, 5, 0, 0, time.UTC), got)

	withSeconds, err := ParseWallClock("06:30:15", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 30, 6, 30, 15, 0, time.UTC), withSeconds)

	_, err = ParseWallClock("half past six", day)
	require.Error(t, err)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "6:05 PM", FormatClock(time.Date(2026, 8, 30, 18, 5, 0, 0, time.UTC)))
	assert.Equal(t, "12:00 AM", FormatClock(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:05:32", FormatElapsed(5*time.Minute+32*time.Second))
	assert.Equal(t, "1:00:00", FormatElapsed(time.Hour))
	assert.Equal(t, "0:00:00", FormatElapsed(-time.Second))
}
