package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitForReservation(t *testing.T) {
	base := time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC)
	at := func(hour, minute int) time.Time {
		return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		length     time.Duration
		start      time.Time
		ok         bool
		bookedEnd  time.Time
		remainders []string
	}{
		{"first increment", 3 * time.Hour, at(13, 0), true, at(14, 0), []string{"14:00-16:00"}},
		{"middle increment", 3 * time.Hour, at(14, 0), true, at(15, 0), []string{"13:00-14:00", "15:00-16:00"}},
		{"last increment", 3 * time.Hour, at(15, 0), true, at(16, 0), []string{"13:00-15:00"}},
		{"off the grid", 3 * time.Hour, at(13, 30), false, time.Time{}, nil},
		{"tail shorter than increment", 150 * time.Minute, at(15, 0), false, time.Time{}, nil},
		{"short slot from its start", 30 * time.Minute, at(13, 0), true, at(13, 30), nil},
		{"short slot off its start", 30 * time.Minute, at(13, 15), false, time.Time{}, nil},
		{"before the slot", 3 * time.Hour, at(12, 0), false, time.Time{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := Slot{ProviderID: 1, StartAt: base, EndAt: base.Add(tt.length), Kind: SlotAvailable}

			split, ok := SplitForReservation(slot, tt.start, time.Hour)

			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.start, split.BookedStart)
			assert.Equal(t, tt.bookedEnd, split.BookedEnd)

			var pieces []string
			for _, r := range split.Remainders {
				assert.Equal(t, SlotAvailable, r.Kind)
				pieces = append(pieces, r.StartAt.Format("15:04")+"-"+r.EndAt.Format("15:04"))
			}
			assert.Equal(t, tt.remainders, pieces)
		})
	}
}
