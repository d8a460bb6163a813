package seed

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// Config объём и форма демо-расписания
type Config struct {
	Days        int                // Сколько календарных дней вперёд (начиная с завтра)
	SlotMinutes int                // Длительность одного слота
	StartTimes  []types.TimeString // Начала слотов в будние дни, в часовом поясе провайдера
}

// DefaultConfig часовые слоты по будням на две недели вперёд
func DefaultConfig() Config {
	times := make([]types.TimeString, 0, len(domain.DefaultFallbackTimes))
	for _, label := range domain.DefaultFallbackTimes {
		t, err := types.ParseClockLabel(label)
		if err != nil {
			continue
		}
		times = append(times, t)
	}
	return Config{
		Days:        domain.DefaultFallbackDays,
		SlotMinutes: domain.DefaultOfferIncrementMinutes,
		StartTimes:  times,
	}
}

// GenerateSlots раскладывает available слоты по будним дням после today.
// Даты и времена берутся в часовом поясе loc, в слотах хранятся в UTC.
func GenerateSlots(providerID int64, resourceID *int64, today time.Time, loc *time.Location, cfg Config) []*domain.Slot {
	length := time.Duration(cfg.SlotMinutes) * time.Minute
	start := domain.StartOfDay(today.In(loc))

	var slots []*domain.Slot
	for i := 1; i <= cfg.Days; i++ {
		day := start.AddDate(0, 0, i)
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		for _, t := range cfg.StartTimes {
			at := t.On(day, loc)
			slots = append(slots, &domain.Slot{
				ProviderID: providerID,
				ResourceID: resourceID,
				StartAt:    at.UTC(),
				EndAt:      at.Add(length).UTC(),
				Kind:       domain.SlotAvailable,
			})
		}
	}
	return slots
}
