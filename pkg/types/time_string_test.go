package types

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockLabel(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
	}{
		{"9:00 AM", 9 * 60},
		{"12:00 AM", 0},
		{"12:30 PM", 12*60 + 30},
		{"2:00 PM", 14 * 60},
		{"11:45 pm", 23*60 + 45},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockLabel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, got.Minutes())
		})
	}
}

func TestParseClockLabel_Invalid(t *testing.T) {
	for _, in := range []string{"", "9:00", "13:00 PM", "0:30 AM", "9:7 AM", "nine AM"} {
		_, err := ParseClockLabel(in)
		assert.ErrorIs(t, err, ErrInvalidTimeString, in)
	}
}

func TestLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"12:00 AM", "9:00 AM", "11:00 AM", "12:00 PM", "2:00 PM", "11:59 PM"} {
		parsed, err := ParseClockLabel(label)
		require.NoError(t, err)
		assert.Equal(t, label, parsed.Label())
	}
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("14:05:00")
	require.NoError(t, err)
	assert.Equal(t, "14:05", ts.String())

	ts, err = NewTimeStringFromString("09:30:00.000000")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, ts.Minutes())

	_, err = NewTimeStringFromString("24:00")
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

// Сортировка по минутам, а не по строке: "11:00 AM" < "2:00 PM" < "9:00 AM" лексикографически
func TestSortByMinutesNotLexicographic(t *testing.T) {
	labels := []string{"11:00 AM", "2:00 PM", "9:00 AM"}
	parsed := make([]TimeString, 0, len(labels))
	for _, l := range labels {
		ts, err := ParseClockLabel(l)
		require.NoError(t, err)
		parsed = append(parsed, ts)
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].IsBefore(parsed[j]) })

	got := make([]string, len(parsed))
	for i, ts := range parsed {
		got[i] = ts.Label()
	}
	assert.Equal(t, []string{"9:00 AM", "11:00 AM", "2:00 PM"}, got)
}

func TestAddMinutesOverflow(t *testing.T) {
	ts, err := NewTimeStringFromString("23:30")
	require.NoError(t, err)

	_, err = ts.AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestScan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("10:15:00")))
	assert.Equal(t, "10:15", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.NoError(t, ts.Scan(time.Date(2025, 1, 1, 7, 45, 0, 0, time.UTC)))
	assert.Equal(t, "07:45", ts.String())
}

func TestOn(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ts, err := ParseClockLabel("2:00 PM")
	require.NoError(t, err)

	at := ts.On(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, 14, at.Hour())
	assert.Equal(t, time.June, at.Month())
	assert.Equal(t, loc, at.Location())
}
