package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTotalCost(t *testing.T) {
	day0 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		price float64
		start time.Time
		end   time.Time
		want  float64
	}{
		{"three full days", 50, day0, day0.AddDate(0, 0, 3), 150},
		{"zero elapsed", 50, day0, day0, 0},
		{"fractional day rounds up", 50, day0, day0.Add(12 * time.Hour), 50},
		{"day and a half rounds to two", 50, day0, day0.Add(36 * time.Hour), 100},
		// No validation of the window exists; a reversed window produces a
		// negative cost and is stored that way.
		{"end before start stays negative", 50, day0, day0.AddDate(0, 0, -1), -50},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, TotalCost(tc.price, tc.start, tc.end))
		})
	}
}

func TestCanCancel(t *testing.T) {
	require.True(t, CanCancel(StatusPending))
	require.True(t, CanCancel(StatusActive))
	require.False(t, CanCancel(StatusCompleted))
	require.False(t, CanCancel(StatusCancelled))
	require.False(t, CanCancel("turbo")) // unknown statuses are terminal too
}
