package get_bookable_windows

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// expandSlot разбивает окно слота на кандидаты с шагом increment.
// Время предлагается, пока t + increment <= end. Слот короче одного шага
// предлагает только своё начало.
func expandSlot(slot *domain.Slot, loc *time.Location, increment time.Duration) []Candidate {
	if increment <= 0 {
		increment = domain.DefaultOfferIncrementMinutes * time.Minute
	}

	if slot.EndAt.Sub(slot.StartAt) < increment {
		return []Candidate{newCandidate(slot, slot.StartAt, loc)}
	}

	candidates := make([]Candidate, 0, int(slot.EndAt.Sub(slot.StartAt)/increment))
	for t := slot.StartAt; !t.Add(increment).After(slot.EndAt); t = t.Add(increment) {
		candidates = append(candidates, newCandidate(slot, t, loc))
	}
	return candidates
}

func newCandidate(slot *domain.Slot, start time.Time, loc *time.Location) Candidate {
	startAt := start
	slotID := slot.ID
	return Candidate{
		Time:       types.NewTimeString(start.In(loc)),
		StartAt:    &startAt,
		SlotID:     &slotID,
		ResourceID: slot.ResourceID,
		StaffName:  slot.ResourceName,
	}
}

// dayBuilder собирает кандидатов одной даты с дедупликацией по времени суток
type dayBuilder struct {
	date  time.Time
	seen  map[int]struct{}
	times []Candidate
}

// add добавляет кандидата; совпадающее время суток отбрасывается (первый выигрывает)
func (d *dayBuilder) add(c Candidate) {
	if _, ok := d.seen[c.Time.Minutes()]; ok {
		return
	}
	d.seen[c.Time.Minutes()] = struct{}{}
	d.times = append(d.times, c)
}

// groupByDate раскладывает кандидатов по датам провайдера.
// horizon возвращает последнюю допустимую дату для ресурса (нулевое значение = без ограничений).
func groupByDate(
	slots []*domain.Slot,
	loc *time.Location,
	increment func(resourceID *int64) time.Duration,
	horizon func(resourceID *int64) time.Time,
) []DayWindow {
	days := make(map[time.Time]*dayBuilder)

	for _, slot := range slots {
		last := horizon(slot.ResourceID)
		for _, c := range expandSlot(slot, loc, increment(slot.ResourceID)) {
			date := localDate(*c.StartAt, loc)
			if !last.IsZero() && date.After(last) {
				continue
			}

			day, ok := days[date]
			if !ok {
				day = &dayBuilder{date: date, seen: make(map[int]struct{})}
				days[date] = day
			}
			day.add(c)
		}
	}

	result := make([]DayWindow, 0, len(days))
	for _, day := range days {
		sortByClock(day.times)
		result = append(result, DayWindow{Date: day.date, Times: day.times})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result
}

// sortByClock сортирует по минутам от полуночи, сохраняя порядок равных
func sortByClock(times []Candidate) {
	sort.SliceStable(times, func(i, j int) bool {
		return times[i].Time.Minutes() < times[j].Time.Minutes()
	})
}

// fallbackWindows ориентировочные времена на следующие days календарных дней, начиная с завтрашнего
func fallbackWindows(now time.Time, loc *time.Location, cfg FallbackConfig) []DayWindow {
	times := make([]Candidate, 0, len(cfg.Times))
	for _, t := range cfg.Times {
		times = append(times, Candidate{Time: t})
	}
	sortByClock(times)

	today := localDate(now, loc)
	result := make([]DayWindow, 0, cfg.Days)
	for i := 1; i <= cfg.Days; i++ {
		dayTimes := make([]Candidate, len(times))
		copy(dayTimes, times)
		result = append(result, DayWindow{
			Date:  today.AddDate(0, 0, i),
			Times: dayTimes,
		})
	}
	return result
}

// localDate полночь календарной даты момента t в локации loc
func localDate(t time.Time, loc *time.Location) time.Time {
	return domain.StartOfDay(t.In(loc))
}
