package domain

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// Provider клиника / специалист, у которого бронируют процедуры
type Provider struct {
	ID         int64
	Name       string
	Timezone   string
	Rating     *float64
	BasePrice  *float64
	Procedures []string

	// Производные поля: ближайший свободный слот. Не являются источником истины,
	// пересчитываются из слотов после каждой мутации.
	NextAvailableDate *time.Time
	NextAvailableTime *types.TimeString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location возвращает часовой пояс провайдера (UTC, если не задан или некорректен)
func (p *Provider) Location() *time.Location {
	if p.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OffersProcedure проверяет, что провайдер выполняет процедуру
func (p *Provider) OffersProcedure(slug string) bool {
	for _, s := range p.Procedures {
		if s == slug {
			return true
		}
	}
	return false
}

// Resource бронируемая единица внутри провайдера (специалист или кабинет)
type Resource struct {
	ID         int64
	ProviderID int64
	Name       string
	IsDefault  bool
	CreatedAt  time.Time
}

// NextAvailable ближайший свободный слот в локальном времени провайдера
type NextAvailable struct {
	Date time.Time // Календарная дата (00:00 UTC)
	Time types.TimeString
}

// NextAvailableFrom строит NextAvailable из момента начала слота в часовом поясе loc.
// nil на входе означает отсутствие подходящего слота.
func NextAvailableFrom(start *time.Time, loc *time.Location) *NextAvailable {
	if start == nil {
		return nil
	}
	local := start.In(loc)
	y, m, d := local.Date()
	return &NextAvailable{
		Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Time: types.NewTimeString(local),
	}
}

// RankingCandidate провайдер, обогащённый данными для расчёта бейджей. Не сохраняется.
type RankingCandidate struct {
	ProviderID        int64
	Name              string
	Rating            float64
	BasePrice         *float64
	NextAvailableDate *time.Time
}
