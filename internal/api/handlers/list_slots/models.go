package list_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

const defaultRangeDays = 7

// parseBound принимает RFC3339 или дату YYYY-MM-DD (полночь UTC)
func parseBound(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 or YYYY-MM-DD, got %q", raw)
	}
	return t, nil
}

// parseRange разбирает видимый диапазон календаря.
// Без from берётся начало текущих суток (UTC), без to - неделя от from.
func parseRange(fromRaw, toRaw string, now time.Time) (time.Time, time.Time, error) {
	from := domain.StartOfDay(now.UTC())
	if fromRaw != "" {
		t, err := parseBound(fromRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}

	to := from.AddDate(0, 0, defaultRangeDays)
	if toRaw != "" {
		t, err := parseBound(toRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = t
	}
	return from, to, nil
}
